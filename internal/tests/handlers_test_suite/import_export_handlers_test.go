package handlers_test_suite

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/gerenciador-itens/internal/http/handlers"
)

func TestImportItemsHandler(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := newRouter()

	csvContent := "Nome,Tipo,Quantidade,Preco,Descricao\n" +
		"Martelo,Ferramenta,3,25.50,Cabo de madeira\n" +
		"Prego,Ferragem,200,\"0,10\",\n" +
		",Ferramenta,1,1,\n" +
		"Serrote,Ferramenta,-2,10,\n" +
		"Régua,Papelaria,4,abc,\n"

	w := importCSV(r, csvContent)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var result handler.ImportItemsResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.Importados != 2 {
		t.Errorf("expected 2 imported, got %d", result.Importados)
	}
	wantLines := []int{4, 5, 6}
	if len(result.Erros) != len(wantLines) {
		t.Fatalf("expected %d errors, got %+v", len(wantLines), result.Erros)
	}
	for i, line := range wantLines {
		if result.Erros[i].Linha != line {
			t.Errorf("error %d: expected line %d, got %d", i, line, result.Erros[i].Linha)
		}
	}

	items := listItems(t, r, "&tipo=Ferragem")
	if len(items) != 1 || items[0].Preco != 0.10 || items[0].Quantidade != 200 {
		t.Errorf("unexpected imported item %+v", items)
	}
}

func TestImportItemsHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := newRouter()

	w := importCSV(r, "nome,preco\nMartelo,10\n")
	expectError(t, w, http.StatusBadRequest, "Cabeçalho CSV inválido")

	w = doRequest(r, http.MethodPost, "/api?endpoint=importar", map[string]any{"nome": "x"})
	expectError(t, w, http.StatusBadRequest, "Arquivo CSV não fornecido")

	w = doRequest(r, http.MethodGet, "/api?endpoint=importar", nil)
	expectError(t, w, http.StatusMethodNotAllowed, "Método não permitido")
}

func TestExportItemsHandler_CSV(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := newRouter()

	mustCreateItem(t, r, map[string]any{"nome": "Martelo", "tipo": "Ferramenta", "quantidade": 3, "preco": 25.5, "descricao": "Cabo, madeira"})
	mustCreateItem(t, r, map[string]any{"nome": "Caderno", "tipo": "Papelaria", "quantidade": 1})

	w := doRequest(r, http.MethodGet, "/api?endpoint=exportar&tipo=Ferr", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "itens.csv") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and 1 row, got %d records", len(records))
	}
	row := records[1]
	if row[1] != "Martelo" || row[3] != "3" || row[4] != "25.50" || row[5] != "Cabo, madeira" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestExportItemsHandler_JSONAndInvalidFormat(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := newRouter()

	mustCreateItem(t, r, map[string]any{"nome": "Martelo", "tipo": "Ferramenta", "quantidade": 3})

	w := doRequest(r, http.MethodGet, "/api?endpoint=exportar&formato=json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var items []handler.ItemResponse
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if len(items) != 1 || items[0].Nome != "Martelo" {
		t.Errorf("unexpected export %+v", items)
	}

	w = doRequest(r, http.MethodGet, "/api?endpoint=exportar&formato=xml", nil)
	expectError(t, w, http.StatusBadRequest, "Formato inválido")
}
