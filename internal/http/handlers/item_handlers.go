package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	repo "github.com/rogerio-castellano/gerenciador-itens/internal/repo"
)

const (
	EndpointItens    = "itens"
	EndpointStats    = "stats"
	EndpointImportar = "importar"
	EndpointExportar = "exportar"

	msgNotFound         = "Item não encontrado"
	msgMissingData      = "Dados obrigatórios não fornecidos"
	msgMissingID        = "ID do item não fornecido"
	msgCreated          = "Item criado com sucesso"
	msgUpdated          = "Item atualizado com sucesso"
	msgDeleted          = "Item excluído com sucesso"
	msgMethodNotAllowed = "Método não permitido"
	msgUnknownEndpoint  = "Endpoint não encontrado"
	msgCreateFailed     = "Erro ao criar item"
	msgUpdateFailed     = "Erro ao atualizar item"
	msgDeleteFailed     = "Erro ao excluir item"
	msgInternal         = "Erro interno do servidor"
	msgTooManyRequests  = "Muitas requisições"
)

// APIHandler dispatches on the endpoint query parameter and the method.
func APIHandler(w http.ResponseWriter, r *http.Request) {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	endpoint := r.URL.Query().Get("endpoint")

	dispatch(ww, r, endpoint)

	label := endpoint
	switch label {
	case EndpointItens, EndpointStats, EndpointImportar, EndpointExportar:
	default:
		label = "unknown"
	}
	operations.Record(r.Context(), label, r.Method, ww.Status())
}

func dispatch(w http.ResponseWriter, r *http.Request, endpoint string) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch endpoint {
	case EndpointItens:
		switch r.Method {
		case http.MethodGet:
			if hasItemID(r) {
				GetItemHandler(w, r)
				return
			}
			ListItemsHandler(w, r)
		case http.MethodPost:
			CreateItemHandler(w, r)
		case http.MethodPut:
			UpdateItemHandler(w, r)
		case http.MethodDelete:
			DeleteItemHandler(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		}
	case EndpointStats:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}
		StatsHandler(w, r)
	case EndpointImportar:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}
		ImportItemsHandler(w, r)
	case EndpointExportar:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}
		ExportItemsHandler(w, r)
	default:
		writeError(w, http.StatusNotFound, msgUnknownEndpoint)
	}
}

// ListItemsHandler godoc
// @Summary List items, get one item or read stats
// @Description endpoint=itens lists active items, newest first, optionally filtered by substrings of nome and tipo.
// @Description endpoint=itens&id=N returns one active item (404 when missing).
// @Description endpoint=stats returns the aggregate over active items.
// @Tags itens
// @Produce json
// @Param endpoint query string true "itens or stats"
// @Param id query int false "Item ID"
// @Param nome query string false "Substring of nome"
// @Param tipo query string false "Substring of tipo"
// @Success 200 {array} ItemResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api [get]
func ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repo.ItemFilter{
		Nome: q.Get("nome"),
		Tipo: q.Get("tipo"),
	}

	items, err := itemRepo.List(r.Context(), filter)
	if err != nil {
		slog.Error("listing items", "nome", filter.Nome, "tipo", filter.Tipo, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeOK(w, http.StatusOK, toItemResponses(items))
}

// hasItemID reports whether GET itens asks for a single item. A missing,
// empty or zero id lists instead.
func hasItemID(r *http.Request) bool {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		return false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id == 0 {
		return false
	}
	return true
}

// GetItemHandler serves GET itens&id=N. An id that is not a number cannot
// match any row and is reported as not found.
func GetItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	item, err := itemRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		slog.Error("fetching item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeOK(w, http.StatusOK, toItemResponse(item))
}

// CreateItemHandler godoc
// @Summary Create an item
// @Tags itens
// @Accept json
// @Produce json
// @Param endpoint query string true "itens"
// @Param item body ItemRequest true "Item to add"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api [post]
func CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingData)
		return
	}
	if errs := validateRequest(req); errs != nil {
		slog.Debug("rejected item", "errors", errs)
		writeError(w, http.StatusBadRequest, msgMissingData)
		return
	}

	created, err := itemRepo.Create(r.Context(), req.toModel())
	if err != nil {
		slog.Error("creating item", "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	slog.Info("item created", "id", created.ID, "nome", created.Nome)
	invalidateStats(r.Context())

	writeOK(w, http.StatusCreated, SuccessResponse{Sucesso: true, Mensagem: msgCreated})
}

// UpdateItemHandler godoc
// @Summary Update an item
// @Description Overwrites every mutable field of the active item with the given id.
// @Description An id that matches no active item is accepted and changes nothing.
// @Tags itens
// @Accept json
// @Produce json
// @Param endpoint query string true "itens"
// @Param item body UpdateItemRequest true "Item with its id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api [put]
func UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, decodeFailureMessage(err))
		return
	}
	if errs := validateRequest(req); errs != nil {
		msg := msgMissingData
		if hasFieldError(errs, "ID") {
			msg = msgMissingID
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item := req.ItemRequest.toModel()
	item.ID = int64(*req.ID)

	matched, err := itemRepo.Update(r.Context(), item)
	if err != nil {
		slog.Error("updating item", "id", item.ID, "error", err)
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	slog.Info("item updated", "id", item.ID, "matched", matched)
	invalidateStats(r.Context())

	writeOK(w, http.StatusOK, SuccessResponse{Sucesso: true, Mensagem: msgUpdated})
}

// DeleteItemHandler godoc
// @Summary Delete an item
// @Description Marks the item as inactive. The row is kept.
// @Tags itens
// @Accept json
// @Produce json
// @Param endpoint query string true "itens"
// @Param item body DeleteItemRequest true "Item id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api [delete]
func DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	var req DeleteItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingID)
		return
	}
	if errs := validateRequest(req); errs != nil {
		writeError(w, http.StatusBadRequest, msgMissingID)
		return
	}

	id := int64(*req.ID)
	if err := itemRepo.Delete(r.Context(), id); err != nil {
		slog.Error("deleting item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	slog.Info("item deleted", "id", id)
	invalidateStats(r.Context())

	writeOK(w, http.StatusOK, SuccessResponse{Sucesso: true, Mensagem: msgDeleted})
}

// decodeFailureMessage blames the id unless the body decoded far enough to
// show that another field has the wrong type.
func decodeFailureMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "id" {
		return msgMissingData
	}
	return msgMissingID
}

func invalidateStats(ctx context.Context) {
	if err := statsCache.InvalidateStats(ctx); err != nil {
		slog.Warn("stats cache invalidation failed", "error", err)
	}
}
