// Package client is a typed HTTP client for the items API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

// Filter narrows a listing by substrings of nome and tipo.
type Filter struct {
	Nome string
	Tipo string
}

// Item is an item as returned by the API.
type Item struct {
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

// ItemInput is the body of a create or update. ID is ignored on create.
type ItemInput struct {
	ID         int64   `json:"id,omitempty"`
	Nome       string  `json:"nome"`
	Tipo       string  `json:"tipo"`
	Quantidade int     `json:"quantidade"`
	Preco      float64 `json:"preco"`
	Descricao  string  `json:"descricao"`
}

type ImportRowError struct {
	Linha int    `json:"linha"`
	Erro  string `json:"erro"`
}

type ImportResult struct {
	Importados int              `json:"importados"`
	Erros      []ImportRowError `json:"erros"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type successResponse struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
}

type errorResponse struct {
	Erro   string `json:"erro"`
	Codigo int    `json:"codigo"`
}

type Client struct {
	baseURL string
	apiPath string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIPath changes the dispatcher path, "/api" by default.
func WithAPIPath(path string) Option {
	return func(c *Client) {
		c.apiPath = "/" + strings.Trim(path, "/")
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiPath: "/api",
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpointURL(endpoint string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("endpoint", endpoint)
	return c.baseURL + c.apiPath + "?" + params.Encode()
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Erro != "" {
			apiErr.Message = e.Erro
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(endpoint, nil), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, params), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func filterParams(f Filter) url.Values {
	params := url.Values{}
	if f.Nome != "" {
		params.Set("nome", f.Nome)
	}
	if f.Tipo != "" {
		params.Set("tipo", f.Tipo)
	}
	return params
}

func (c *Client) ListItems(ctx context.Context, f Filter) ([]Item, error) {
	items := []Item{}
	if err := c.get(ctx, "itens", filterParams(f), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id int64) (Item, error) {
	var it Item
	params := url.Values{"id": []string{strconv.FormatInt(id, 10)}}
	if err := c.get(ctx, "itens", params, &it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// CreateItem returns the server's confirmation message.
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (string, error) {
	in.ID = 0
	var resp successResponse
	if err := c.sendJSON(ctx, http.MethodPost, "itens", in, &resp); err != nil {
		return "", err
	}
	return resp.Mensagem, nil
}

func (c *Client) UpdateItem(ctx context.Context, in ItemInput) (string, error) {
	var resp successResponse
	if err := c.sendJSON(ctx, http.MethodPut, "itens", in, &resp); err != nil {
		return "", err
	}
	return resp.Mensagem, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) (string, error) {
	var resp successResponse
	body := map[string]int64{"id": id}
	if err := c.sendJSON(ctx, http.MethodDelete, "itens", body, &resp); err != nil {
		return "", err
	}
	return resp.Mensagem, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	if err := c.get(ctx, "stats", nil, &s); err != nil {
		return models.Stats{}, err
	}
	return s, nil
}

// ImportCSV uploads a CSV file to the importar endpoint.
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader) (ImportResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return ImportResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return ImportResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return ImportResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL("importar", nil), &buf)
	if err != nil {
		return ImportResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result ImportResult
	if err := c.do(req, &result); err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// ExportItems writes the exported items, csv or json, to w.
func (c *Client) ExportItems(ctx context.Context, f Filter, format string, w io.Writer) error {
	params := filterParams(f)
	if format != "" {
		params.Set("formato", format)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL("exportar", params), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Erro != "" {
			apiErr.Message = e.Erro
		}
		return apiErr
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
