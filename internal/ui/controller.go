package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

const DefaultDebounce = 500 * time.Millisecond

const (
	msgLoadFailed     = "Erro ao carregar itens"
	msgEditFailed     = "Erro ao carregar item para edição"
	msgRequiredFields = "Por favor, preencha os campos obrigatórios"
	msgSaveFailed     = "Erro ao salvar item"
	msgCreated        = "Item criado com sucesso"
	msgUpdated        = "Item atualizado com sucesso"
	msgDeleteFailed   = "Erro ao excluir item"
	msgDeleted        = "Item excluído com sucesso"
	deleteModalTitle  = "Confirmar Exclusão"
)

var (
	// ErrStale is returned by a load whose response arrived after a newer
	// load had started. The response is discarded.
	ErrStale = errors.New("ui: load superseded by a newer one")
	// ErrSuperseded is returned by a debounced name filter replaced by a
	// newer call inside the debounce window.
	ErrSuperseded = errors.New("ui: name filter superseded")
	// ErrMissingFields is returned by Submit when nome or tipo is empty.
	ErrMissingFields = errors.New("ui: required fields missing")
	// ErrNoPendingDelete is returned by ConfirmDelete without an open modal.
	ErrNoPendingDelete = errors.New("ui: no pending delete")
)

// API is the subset of the items API the controller needs.
type API interface {
	ListItems(ctx context.Context, f client.Filter) ([]client.Item, error)
	GetItem(ctx context.Context, id int64) (client.Item, error)
	CreateItem(ctx context.Context, in client.ItemInput) (string, error)
	UpdateItem(ctx context.Context, in client.ItemInput) (string, error)
	DeleteItem(ctx context.Context, id int64) (string, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Controller owns the State. Mutations happen under mu; API calls never do.
type Controller struct {
	api      API
	debounce time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	nameSeq    uint64
}

type Option func(*Controller)

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		state: State{
			View:     ViewGrid,
			Items:    []client.Item{},
			Filtered: []client.Item{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// DrainToasts returns the queued toasts and empties the queue.
func (c *Controller) DrainToasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	toasts := c.state.Toasts
	c.state.Toasts = nil
	return toasts
}

// must hold mu
func (c *Controller) pushToast(kind ToastKind, msg string) {
	c.state.Toasts = append(c.state.Toasts, Toast{Kind: kind, Message: msg})
}

// Load fetches the items matching the current filter and the stats.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state.Loading = true
	filter := c.state.Filter
	c.mu.Unlock()

	items, err := c.api.ListItems(ctx, filter)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return ErrStale
		}
		c.state.Loading = false
		c.logger.Error("loading items", "error", err)
		c.pushToast(ToastError, msgLoadFailed)
		return err
	}

	stats, statsErr := c.api.Stats(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrStale
	}
	c.state.Items = items
	c.state.Filtered = append([]client.Item{}, items...)
	c.state.Loading = false
	if statsErr != nil {
		c.logger.Error("loading stats", "error", statsErr)
	} else {
		c.state.Stats = stats
	}
	return nil
}

// reload runs Load after a mutation. A stale reload is not a failure of
// the mutation.
func (c *Controller) reload(ctx context.Context) error {
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

// Edit loads an item into the form and switches to update mode.
func (c *Controller) Edit(ctx context.Context, id int64) error {
	it, err := c.api.GetItem(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error("loading item for edit", "id", id, "error", err)
		c.pushToast(ToastError, msgEditFailed)
		return err
	}
	c.state.EditingID = id
	c.state.Form = formFromItem(it)
	return nil
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.EditingID = 0
	c.state.Form = Form{}
}

// Submit creates an item, or updates the one being edited.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	f.Nome = strings.TrimSpace(f.Nome)
	f.Descricao = strings.TrimSpace(f.Descricao)

	c.mu.Lock()
	c.state.Form = f
	if f.Nome == "" || f.Tipo == "" {
		c.pushToast(ToastWarning, msgRequiredFields)
		c.mu.Unlock()
		return ErrMissingFields
	}
	editing := c.state.EditingID
	c.mu.Unlock()

	in := client.ItemInput{
		Nome:       f.Nome,
		Tipo:       f.Tipo,
		Quantidade: f.Quantidade,
		Preco:      f.Preco,
		Descricao:  f.Descricao,
	}

	var err error
	if editing != 0 {
		in.ID = editing
		_, err = c.api.UpdateItem(ctx, in)
	} else {
		_, err = c.api.CreateItem(ctx, in)
	}

	c.mu.Lock()
	if err != nil {
		c.logger.Error("saving item", "id", editing, "error", err)
		c.pushToast(ToastError, msgSaveFailed)
		c.mu.Unlock()
		return err
	}
	if editing != 0 {
		c.pushToast(ToastSuccess, msgUpdated)
	} else {
		c.pushToast(ToastSuccess, msgCreated)
	}
	c.state.EditingID = 0
	c.state.Form = Form{}
	c.mu.Unlock()

	return c.reload(ctx)
}

// RequestDelete opens the confirmation modal for an item.
func (c *Controller) RequestDelete(id int64, nome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = &Modal{
		ItemID:  id,
		Title:   deleteModalTitle,
		Message: fmt.Sprintf(`Tem certeza que deseja excluir o item "%s"? Esta ação não pode ser desfeita.`, nome),
	}
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = nil
}

// ConfirmDelete deletes the item of the open modal and reloads.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	modal := c.state.Modal
	c.state.Modal = nil
	c.mu.Unlock()
	if modal == nil {
		return ErrNoPendingDelete
	}

	_, err := c.api.DeleteItem(ctx, modal.ItemID)

	c.mu.Lock()
	if err != nil {
		c.logger.Error("deleting item", "id", modal.ItemID, "error", err)
		c.pushToast(ToastError, msgDeleteFailed)
		c.mu.Unlock()
		return err
	}
	c.pushToast(ToastSuccess, msgDeleted)
	c.mu.Unlock()

	return c.reload(ctx)
}

// ClearFilters resets both filters, drops any pending name filter and reloads.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.state.Filter = client.Filter{}
	c.nameSeq++
	c.mu.Unlock()
	return c.Load(ctx)
}

// ToggleView switches between grid and table without refetching.
func (c *Controller) ToggleView(v ViewMode) {
	if _, ok := ParseViewMode(string(v)); !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.View = v
}

// FilterByName sets the name filter and reloads once the debounce delay
// passes without a newer call.
func (c *Controller) FilterByName(ctx context.Context, nome string) error {
	c.mu.Lock()
	c.nameSeq++
	seq := c.nameSeq
	c.state.Filter.Nome = strings.TrimSpace(nome)
	delay := c.debounce
	c.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	current := seq == c.nameSeq
	c.mu.Unlock()
	if !current {
		return ErrSuperseded
	}
	return c.Load(ctx)
}

// FilterByType sets the type filter and reloads immediately.
func (c *Controller) FilterByType(ctx context.Context, tipo string) error {
	c.mu.Lock()
	c.state.Filter.Tipo = tipo
	c.mu.Unlock()
	return c.Load(ctx)
}

// ApplyFilter replaces both filters at once, drops any pending name filter
// and reloads.
func (c *Controller) ApplyFilter(ctx context.Context, f client.Filter) error {
	c.mu.Lock()
	c.state.Filter = client.Filter{Nome: strings.TrimSpace(f.Nome), Tipo: f.Tipo}
	c.nameSeq++
	c.mu.Unlock()
	return c.Load(ctx)
}
