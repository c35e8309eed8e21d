package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	repo "github.com/rogerio-castellano/gerenciador-itens/internal/repo"
)

const msgInvalidFormat = "Formato inválido"

var exportColumns = []string{"id", "nome", "tipo", "quantidade", "preco", "descricao", "data_criacao", "data_atualizacao"}

// ExportItemsHandler godoc
// @Summary Export active items
// @Description Same filters and order as the list. formato is csv (default) or json.
// @Tags exportar
// @Produce text/csv, application/json
// @Param endpoint query string true "exportar"
// @Param formato query string false "csv or json"
// @Param nome query string false "Substring of nome"
// @Param tipo query string false "Substring of tipo"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
func ExportItemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("formato")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, msgInvalidFormat)
		return
	}

	items, err := itemRepo.List(r.Context(), repo.ItemFilter{Nome: q.Get("nome"), Tipo: q.Get("tipo")})
	if err != nil {
		slog.Error("exporting items", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	switch format {
	case "json":
		headers := http.Header{"Content-Disposition": []string{`attachment; filename="itens.json"`}}
		if err := writeJSON(w, http.StatusOK, toItemResponses(items), headers); err != nil {
			slog.Error("writing export", "error", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="itens.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write(exportColumns)
		for _, it := range items {
			_ = csvWriter.Write([]string{
				strconv.FormatInt(it.ID, 10),
				it.Nome,
				it.Tipo,
				strconv.Itoa(it.Quantidade),
				strconv.FormatFloat(it.Preco, 'f', 2, 64),
				it.Descricao,
				it.CreatedAt.UTC().Format(time.RFC3339),
				it.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			slog.Error("writing export", "error", err)
		}
	}
}
