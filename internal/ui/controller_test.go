package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

var errBoom = errors.New("boom")

func newTestController(api *fakeAPI, opts ...Option) *Controller {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewController(api, opts...)
}

func TestController_InitialState(t *testing.T) {
	c := newTestController(&fakeAPI{})
	s := c.Snapshot()
	if s.View != ViewGrid || s.Editing() || s.Loading || s.Modal != nil {
		t.Errorf("unexpected initial state %+v", s)
	}
	if s.Items == nil || len(s.Items) != 0 {
		t.Errorf("expected empty items, got %#v", s.Items)
	}
}

func TestController_Load(t *testing.T) {
	api := &fakeAPI{
		ListItemsFunc: func(context.Context, client.Filter) ([]client.Item, error) {
			return sampleItems, nil
		},
		StatsFunc: func(context.Context) (models.Stats, error) {
			return models.Stats{TotalItens: 2, TotalQuantidade: 8, ValorTotal: 30.5, TiposDiferentes: 2}, nil
		},
	}
	c := newTestController(api)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	s := c.Snapshot()
	if diff := cmp.Diff(sampleItems, s.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.Items, s.Filtered); diff != "" {
		t.Errorf("filtered should equal items (-items +filtered):\n%s", diff)
	}
	if s.Stats.TotalItens != 2 || s.Loading {
		t.Errorf("unexpected state %+v", s)
	}
	if toasts := c.DrainToasts(); len(toasts) != 0 {
		t.Errorf("expected no toasts, got %v", toasts)
	}
}

func TestController_LoadFailureKeepsItems(t *testing.T) {
	fail := false
	api := &fakeAPI{
		ListItemsFunc: func(context.Context, client.Filter) ([]client.Item, error) {
			if fail {
				return nil, errBoom
			}
			return sampleItems, nil
		},
	}
	c := newTestController(api)
	c.Load(context.Background())

	fail = true
	if err := c.Load(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	s := c.Snapshot()
	if len(s.Items) != len(sampleItems) || s.Loading {
		t.Errorf("unexpected state after failure %+v", s)
	}
	want := []Toast{{Kind: ToastError, Message: "Erro ao carregar itens"}}
	if diff := cmp.Diff(want, c.DrainToasts()); diff != "" {
		t.Errorf("toasts mismatch (-want +got):\n%s", diff)
	}
	if len(c.DrainToasts()) != 0 {
		t.Error("expected toasts drained")
	}
}

func TestController_StatsFailureIsSilent(t *testing.T) {
	api := &fakeAPI{
		ListItemsFunc: func(context.Context, client.Filter) ([]client.Item, error) { return sampleItems, nil },
		StatsFunc:     func(context.Context) (models.Stats, error) { return models.Stats{}, errBoom },
	}
	c := newTestController(api)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Snapshot().Items) != 2 {
		t.Error("expected items loaded")
	}
	if toasts := c.DrainToasts(); len(toasts) != 0 {
		t.Errorf("expected no toasts, got %v", toasts)
	}
}

func TestController_StaleLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	old := []client.Item{{ID: 1, Nome: "antigo"}}
	fresh := []client.Item{{ID: 2, Nome: "novo"}}

	api := &fakeAPI{}
	api.ListItemsFunc = func(_ context.Context, f client.Filter) ([]client.Item, error) {
		if f.Tipo == "old" {
			close(started)
			<-release
			return old, nil
		}
		return fresh, nil
	}
	c := newTestController(api)

	var wg sync.WaitGroup
	var oldErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		oldErr = c.FilterByType(context.Background(), "old")
	}()
	<-started

	if err := c.FilterByType(context.Background(), "new"); err != nil {
		t.Fatalf("new load: %v", err)
	}
	close(release)
	wg.Wait()

	if !errors.Is(oldErr, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", oldErr)
	}
	if diff := cmp.Diff(fresh, c.Snapshot().Items); diff != "" {
		t.Errorf("stale response overwrote state (-want +got):\n%s", diff)
	}
}

func TestController_EditAndCancel(t *testing.T) {
	api := &fakeAPI{
		GetItemFunc: func(_ context.Context, id int64) (client.Item, error) {
			return client.Item{ID: id, Nome: "Serra", Tipo: "Ferramenta", Quantidade: 2, Preco: 45.9, Descricao: "elétrica"}, nil
		},
	}
	c := newTestController(api)

	if err := c.Edit(context.Background(), 7); err != nil {
		t.Fatalf("edit: %v", err)
	}
	s := c.Snapshot()
	want := Form{Nome: "Serra", Tipo: "Ferramenta", Quantidade: 2, Preco: 45.9, Descricao: "elétrica"}
	if s.EditingID != 7 {
		t.Errorf("expected editing id 7, got %d", s.EditingID)
	}
	if diff := cmp.Diff(want, s.Form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}

	c.CancelEdit()
	s = c.Snapshot()
	if s.Editing() || s.Form != (Form{}) {
		t.Errorf("expected cleared edit state, got %+v", s)
	}
}

func TestController_EditFailure(t *testing.T) {
	api := &fakeAPI{
		GetItemFunc: func(context.Context, int64) (client.Item, error) {
			return client.Item{}, &client.APIError{Status: 404, Message: "Item não encontrado"}
		},
	}
	c := newTestController(api)

	if err := c.Edit(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}
	if c.Snapshot().Editing() {
		t.Error("should not enter edit mode")
	}
	want := []Toast{{Kind: ToastError, Message: "Erro ao carregar item para edição"}}
	if diff := cmp.Diff(want, c.DrainToasts()); diff != "" {
		t.Errorf("toasts mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SubmitRequiresFields(t *testing.T) {
	tests := []struct {
		name string
		form Form
	}{
		{"missing nome", Form{Tipo: "Ferragem"}},
		{"blank nome", Form{Nome: "   ", Tipo: "Ferragem"}},
		{"missing tipo", Form{Nome: "Prego"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := newTestController(api)

			if err := c.Submit(context.Background(), tt.form); !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
			if api.CreateItemCalls != 0 || api.UpdateItemCalls != 0 {
				t.Error("API must not be called")
			}
			want := []Toast{{Kind: ToastWarning, Message: "Por favor, preencha os campos obrigatórios"}}
			if diff := cmp.Diff(want, c.DrainToasts()); diff != "" {
				t.Errorf("toasts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestController_SubmitCreate(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api)

	err := c.Submit(context.Background(), Form{Nome: " Prego ", Tipo: "Ferragem", Quantidade: 5, Preco: 0.1, Descricao: " 2cm "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if api.CreateItemCalls != 1 || api.ListItemsCalls != 1 {
		t.Errorf("expected one create and one reload, got %d/%d", api.CreateItemCalls, api.ListItemsCalls)
	}
	want := client.ItemInput{Nome: "Prego", Tipo: "Ferragem", Quantidade: 5, Preco: 0.1, Descricao: "2cm"}
	if diff := cmp.Diff(want, api.inputs[0]); diff != "" {
		t.Errorf("input mismatch (-want +got):\n%s", diff)
	}
	if c.Snapshot().Form != (Form{}) {
		t.Error("expected form reset")
	}
	toasts := c.DrainToasts()
	if len(toasts) != 1 || toasts[0] != (Toast{Kind: ToastSuccess, Message: "Item criado com sucesso"}) {
		t.Errorf("unexpected toasts %v", toasts)
	}
}

func TestController_SubmitUpdate(t *testing.T) {
	api := &fakeAPI{
		GetItemFunc: func(_ context.Context, id int64) (client.Item, error) {
			return client.Item{ID: id, Nome: "Serra", Tipo: "Ferramenta", Quantidade: 1}, nil
		},
	}
	c := newTestController(api)
	c.Edit(context.Background(), 9)

	if err := c.Submit(context.Background(), Form{Nome: "Serra circular", Tipo: "Ferramenta", Quantidade: 2}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if api.UpdateItemCalls != 1 || api.CreateItemCalls != 0 {
		t.Fatalf("expected one update, got update=%d create=%d", api.UpdateItemCalls, api.CreateItemCalls)
	}
	if api.inputs[0].ID != 9 {
		t.Errorf("expected id 9, got %d", api.inputs[0].ID)
	}
	if c.Snapshot().Editing() {
		t.Error("expected edit mode left")
	}
	toasts := c.DrainToasts()
	if len(toasts) != 1 || toasts[0].Message != "Item atualizado com sucesso" {
		t.Errorf("unexpected toasts %v", toasts)
	}
}

func TestController_SubmitFailureKeepsForm(t *testing.T) {
	api := &fakeAPI{
		CreateItemFunc: func(context.Context, client.ItemInput) (string, error) { return "", errBoom },
	}
	c := newTestController(api)
	form := Form{Nome: "Prego", Tipo: "Ferragem", Quantidade: -1}

	if err := c.Submit(context.Background(), form); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if c.Snapshot().Form != form {
		t.Error("expected form kept")
	}
	if api.ListItemsCalls != 0 {
		t.Error("no reload expected after failure")
	}
	toasts := c.DrainToasts()
	if len(toasts) != 1 || toasts[0] != (Toast{Kind: ToastError, Message: "Erro ao salvar item"}) {
		t.Errorf("unexpected toasts %v", toasts)
	}
}

func TestController_DeleteFlow(t *testing.T) {
	var deleted int64
	api := &fakeAPI{
		DeleteItemFunc: func(_ context.Context, id int64) (string, error) {
			deleted = id
			return "Item excluído com sucesso", nil
		},
	}
	c := newTestController(api)

	c.RequestDelete(4, "Chave de fenda")
	want := &Modal{
		ItemID:  4,
		Title:   "Confirmar Exclusão",
		Message: `Tem certeza que deseja excluir o item "Chave de fenda"? Esta ação não pode ser desfeita.`,
	}
	if diff := cmp.Diff(want, c.Snapshot().Modal); diff != "" {
		t.Errorf("modal mismatch (-want +got):\n%s", diff)
	}

	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if deleted != 4 || api.ListItemsCalls != 1 {
		t.Errorf("expected delete of 4 and a reload, got %d/%d", deleted, api.ListItemsCalls)
	}
	if c.Snapshot().Modal != nil {
		t.Error("expected modal closed")
	}
	toasts := c.DrainToasts()
	if len(toasts) != 1 || toasts[0] != (Toast{Kind: ToastSuccess, Message: "Item excluído com sucesso"}) {
		t.Errorf("unexpected toasts %v", toasts)
	}

	if err := c.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("expected ErrNoPendingDelete, got %v", err)
	}
}

func TestController_CancelDelete(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api)

	c.RequestDelete(4, "Chave")
	c.CancelDelete()
	if c.Snapshot().Modal != nil {
		t.Error("expected modal closed")
	}
	if api.DeleteItemCalls != 0 {
		t.Error("delete must not be called")
	}
}

func TestController_DeleteFailure(t *testing.T) {
	api := &fakeAPI{
		DeleteItemFunc: func(context.Context, int64) (string, error) { return "", errBoom },
	}
	c := newTestController(api)
	c.RequestDelete(4, "Chave")

	if err := c.ConfirmDelete(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	toasts := c.DrainToasts()
	if len(toasts) != 1 || toasts[0] != (Toast{Kind: ToastError, Message: "Erro ao excluir item"}) {
		t.Errorf("unexpected toasts %v", toasts)
	}
}

func TestController_ToggleViewDoesNotFetch(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api)

	c.ToggleView(ViewTable)
	if c.Snapshot().View != ViewTable {
		t.Error("expected table view")
	}
	c.ToggleView("cards")
	if c.Snapshot().View != ViewTable {
		t.Error("invalid view must be ignored")
	}
	if api.ListItemsCalls != 0 {
		t.Error("toggle must not fetch")
	}
}

func TestController_FilterByTypeAndClear(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api)

	if err := c.FilterByType(context.Background(), "Ferragem"); err != nil {
		t.Fatal(err)
	}
	if api.lastFilter() != (client.Filter{Tipo: "Ferragem"}) {
		t.Errorf("unexpected filter %+v", api.lastFilter())
	}

	if err := c.ClearFilters(context.Background()); err != nil {
		t.Fatal(err)
	}
	if api.lastFilter() != (client.Filter{}) || c.Snapshot().Filter != (client.Filter{}) {
		t.Errorf("expected filters cleared, got %+v", api.lastFilter())
	}
}

func TestController_FilterByNameDebounced(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api, WithDebounce(50*time.Millisecond))

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i, nome := range []string{"m", "ma", "mar"} {
		wg.Add(1)
		go func(i int, nome string) {
			defer wg.Done()
			errs[i] = c.FilterByName(context.Background(), nome)
		}(i, nome)
		waitNameSeq(t, c, uint64(i+1))
	}
	wg.Wait()

	if errs[2] != nil {
		t.Fatalf("last call: %v", errs[2])
	}
	for _, err := range errs[:2] {
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("expected ErrSuperseded, got %v", err)
		}
	}
	if api.listCalls() != 1 {
		t.Errorf("expected a single fetch, got %d", api.listCalls())
	}
	if api.lastFilter().Nome != "mar" {
		t.Errorf("expected filter mar, got %q", api.lastFilter().Nome)
	}
}

func TestController_FilterByNameContextCancelled(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api, WithDebounce(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.FilterByName(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if api.listCalls() != 0 {
		t.Error("no fetch expected")
	}
}

func waitNameSeq(t *testing.T, c *Controller, want uint64) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		seq := c.nameSeq
		c.mu.Unlock()
		if seq >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("name filter call %d never started", want)
}

func TestController_ApplyFilter(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api)

	if err := c.ApplyFilter(context.Background(), client.Filter{Nome: " mar ", Tipo: "Ferramenta"}); err != nil {
		t.Fatal(err)
	}
	want := client.Filter{Nome: "mar", Tipo: "Ferramenta"}
	if api.lastFilter() != want || c.Snapshot().Filter != want {
		t.Errorf("unexpected filter %+v", api.lastFilter())
	}
}
