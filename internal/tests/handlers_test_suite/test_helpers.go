package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	api "github.com/rogerio-castellano/gerenciador-itens/internal/http"
	handler "github.com/rogerio-castellano/gerenciador-itens/internal/http/handlers"
	rl "github.com/rogerio-castellano/gerenciador-itens/internal/http/rate_limiter"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
	"github.com/rogerio-castellano/gerenciador-itens/internal/repo"
)

var itemRepo *repo.InMemoryItemRepository

func init() {
	rl.Configure(0, 1)
	setupTestRepos()
}

func setupTestRepos() {
	itemRepo = repo.NewInMemoryItemRepository()
	handler.SetItemRepo(itemRepo)
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterOptions{APIPath: "/api"})
}

func clearAllItems() {
	itemRepo.Clear()
	handler.SetStatsCache(nil)
}

// doRequest sends body as is when it is a string and JSON-encodes it otherwise.
func doRequest(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItem(r http.Handler, payload map[string]any) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/api?endpoint=itens", payload)
}

func mustCreateItem(t *testing.T, r http.Handler, payload map[string]any) handler.ItemResponse {
	t.Helper()
	w := createItem(r, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	items := listItems(t, r, "")
	for _, it := range items {
		if it.Nome == payload["nome"] {
			return it
		}
	}
	t.Fatalf("created item %v not listed", payload["nome"])
	return handler.ItemResponse{}
}

func listItems(t *testing.T, r http.Handler, query string) []handler.ItemResponse {
	t.Helper()
	w := doRequest(r, http.MethodGet, "/api?endpoint=itens"+query, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK listing items, got %d", w.Code)
	}
	var items []handler.ItemResponse
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("error decoding items: %v", err)
	}
	return items
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding error body: %v", err)
	}
	return resp
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) handler.SuccessResponse {
	t.Helper()
	var resp handler.SuccessResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding success body: %v", err)
	}
	return resp
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, w.Code, w.Body.String())
	}
	resp := decodeError(t, w)
	if resp.Erro != message || resp.Codigo != code {
		t.Errorf("expected {%q, %d}, got %+v", message, code, resp)
	}
}

// fakeStatsCache records calls and can be told to fail.
type fakeStatsCache struct {
	mu            sync.Mutex
	stored        *models.Stats
	gen           int64
	gets          int
	invalidations int
	getErr        error
	setErr        error
	invErr        error
}

func (c *fakeStatsCache) GetStats(context.Context) (models.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return models.Stats{}, false, c.getErr
	}
	if c.stored == nil {
		return models.Stats{}, false, nil
	}
	return *c.stored, true, nil
}

func (c *fakeStatsCache) StatsGeneration(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return 0, c.getErr
	}
	return c.gen, nil
}

func (c *fakeStatsCache) SetStats(_ context.Context, gen int64, s models.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if gen != c.gen {
		return nil
	}
	c.stored = &s
	return nil
}

func (c *fakeStatsCache) InvalidateStats(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	if c.invErr != nil {
		return c.invErr
	}
	c.gen++
	c.stored = nil
	return nil
}

func (c *fakeStatsCache) cached() *models.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored
}

// blockingStatsRepo holds Stats until release is closed, after signalling
// on started that the aggregate has been computed.
type blockingStatsRepo struct {
	repo.ItemRepository
	started chan struct{}
	release chan struct{}
}

func (b *blockingStatsRepo) Stats(ctx context.Context) (models.Stats, error) {
	s, err := b.ItemRepository.Stats(ctx)
	close(b.started)
	<-b.release
	return s, err
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "itens.csv")
	req := httptest.NewRequest(http.MethodPost, "/api?endpoint=importar", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
