package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

var errInvalidItemID = errors.New("invalid item id")

// ItemID accepts both 7 and "7" in request bodies.
type ItemID int64

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errInvalidItemID
		}
		data = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errInvalidItemID
	}
	*id = ItemID(n)
	return nil
}

// ItemRequest is the body of POST itens. Pointers tell a missing field apart
// from a zero value.
type ItemRequest struct {
	Nome       *string  `json:"nome" validate:"required,notblank" example:"Martelo"`
	Tipo       *string  `json:"tipo" validate:"required,notblank" example:"Ferramenta"`
	Quantidade *int     `json:"quantidade" validate:"required,gte=0" example:"3"`
	Preco      *float64 `json:"preco,omitempty" validate:"omitempty,gte=0" example:"25.5"`
	Descricao  *string  `json:"descricao,omitempty" example:"Cabo de madeira"`
}

// UpdateItemRequest is the body of PUT itens.
type UpdateItemRequest struct {
	ID *ItemID `json:"id" validate:"required,gt=0" swaggertype:"integer" example:"1"`
	ItemRequest
}

// DeleteItemRequest is the body of DELETE itens.
type DeleteItemRequest struct {
	ID *ItemID `json:"id" validate:"required,gt=0" swaggertype:"integer" example:"1"`
}

type ItemResponse struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	Tipo            string    `json:"tipo"`
	Quantidade      int       `json:"quantidade"`
	Preco           float64   `json:"preco"`
	Descricao       string    `json:"descricao"`
	Ativo           bool      `json:"ativo"`
	DataCriacao     time.Time `json:"data_criacao"`
	DataAtualizacao time.Time `json:"data_atualizacao"`
}

type SuccessResponse struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
}

type ErrorResponse struct {
	Erro   string `json:"erro"`
	Codigo int    `json:"codigo"`
}

func (req ItemRequest) toModel() models.Item {
	it := models.Item{
		Nome:       strings.TrimSpace(*req.Nome),
		Tipo:       strings.TrimSpace(*req.Tipo),
		Quantidade: *req.Quantidade,
	}
	if req.Preco != nil {
		it.Preco = *req.Preco
	}
	if req.Descricao != nil {
		it.Descricao = *req.Descricao
	}
	return it
}

func toItemResponse(it models.Item) ItemResponse {
	return ItemResponse{
		ID:              it.ID,
		Nome:            it.Nome,
		Tipo:            it.Tipo,
		Quantidade:      it.Quantidade,
		Preco:           it.Preco,
		Descricao:       it.Descricao,
		Ativo:           it.Lifecycle.Active(),
		DataCriacao:     it.CreatedAt,
		DataAtualizacao: it.UpdatedAt,
	}
}

func toItemResponses(items []models.Item) []ItemResponse {
	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		resp[i] = toItemResponse(it)
	}
	return resp
}

type ImportRowError struct {
	Linha int    `json:"linha"`
	Erro  string `json:"erro"`
}

type ImportItemsResult struct {
	Importados int              `json:"importados"`
	Erros      []ImportRowError `json:"erros"`
}
