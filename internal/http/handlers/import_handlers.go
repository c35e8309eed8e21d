package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

const (
	msgMissingFile   = "Arquivo CSV não fornecido"
	msgInvalidHeader = "Cabeçalho CSV inválido"
)

var requiredColumns = []string{"nome", "tipo", "quantidade"}

type csvRow struct {
	Line       int
	Nome       string
	Tipo       string
	Quantidade string
	Preco      string
	Descricao  string
}

// parseCSV reads the header and every record. Columns are matched by name,
// case-insensitively; preco and descricao are optional.
func parseCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rows = append(rows, csvRow{
			Line:       line,
			Nome:       field(record, "nome"),
			Tipo:       field(record, "tipo"),
			Quantidade: field(record, "quantidade"),
			Preco:      field(record, "preco"),
			Descricao:  field(record, "descricao"),
		})
	}
	return rows, nil
}

func (row csvRow) toModel() (models.Item, error) {
	if row.Nome == "" {
		return models.Item{}, errors.New("nome obrigatório")
	}
	if row.Tipo == "" {
		return models.Item{}, errors.New("tipo obrigatório")
	}

	quantidade, err := strconv.Atoi(row.Quantidade)
	if err != nil || quantidade < 0 {
		return models.Item{}, fmt.Errorf("quantidade inválida %q", row.Quantidade)
	}

	var preco float64
	if row.Preco != "" {
		preco, err = strconv.ParseFloat(strings.Replace(row.Preco, ",", ".", 1), 64)
		if err != nil || preco < 0 {
			return models.Item{}, fmt.Errorf("preço inválido %q", row.Preco)
		}
	}

	return models.Item{
		Nome:       row.Nome,
		Tipo:       row.Tipo,
		Quantidade: quantidade,
		Preco:      preco,
		Descricao:  row.Descricao,
	}, nil
}

// ImportItemsHandler godoc
// @Summary Import items via CSV
// @Description The header must name the columns nome, tipo and quantidade; preco and descricao are optional.
// @Description Invalid rows are reported and skipped.
// @Tags importar
// @Accept multipart/form-data
// @Produce json
// @Param endpoint query string true "importar"
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportItemsResult
// @Failure 400 {object} ErrorResponse
func ImportItemsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFile)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		slog.Debug("rejected CSV import", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidHeader)
		return
	}

	result := ImportItemsResult{Erros: []ImportRowError{}}
	for _, row := range rows {
		item, err := row.toModel()
		if err != nil {
			result.Erros = append(result.Erros, ImportRowError{Linha: row.Line, Erro: err.Error()})
			continue
		}
		if _, err := itemRepo.Create(r.Context(), item); err != nil {
			slog.Error("importing item", "line", row.Line, "error", err)
			result.Erros = append(result.Erros, ImportRowError{Linha: row.Line, Erro: msgCreateFailed})
			continue
		}
		result.Importados++
	}

	slog.Info("CSV import finished", "imported", result.Importados, "rejected", len(result.Erros))
	if result.Importados > 0 {
		invalidateStats(r.Context())
	}
	writeOK(w, http.StatusOK, result)
}
