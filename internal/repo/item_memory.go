package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

// InMemoryItemRepository is an in-memory implementation of ItemRepository.
type InMemoryItemRepository struct {
	mu     sync.Mutex
	items  []models.Item
	nextID int64
	now    func() time.Time
}

// NewInMemoryItemRepository creates a new instance of InMemoryItemRepository.
func NewInMemoryItemRepository() *InMemoryItemRepository {
	return &InMemoryItemRepository{
		items:  []models.Item{},
		nextID: 1,
		now:    time.Now,
	}
}

// SetClock replaces time.Now for the timestamps.
func (r *InMemoryItemRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func matchesFilter(it models.Item, f ItemFilter) bool {
	if !it.Lifecycle.Active() {
		return false
	}
	if f.Tipo != "" && !strings.Contains(it.Tipo, f.Tipo) {
		return false
	}
	if f.Nome != "" && !strings.Contains(it.Nome, f.Nome) {
		return false
	}
	return true
}

func (r *InMemoryItemRepository) List(_ context.Context, f ItemFilter) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.Item{}
	for _, it := range r.items {
		if matchesFilter(it, f) {
			filtered = append(filtered, it)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].UpdatedAt.Equal(filtered[j].UpdatedAt) {
			return filtered[i].UpdatedAt.After(filtered[j].UpdatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})
	return filtered, nil
}

func (r *InMemoryItemRepository) GetByID(_ context.Context, id int64) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ID == id && it.Lifecycle.Active() {
			return it, nil
		}
	}
	return models.Item{}, ErrItemNotFound
}

func (r *InMemoryItemRepository) Create(_ context.Context, item models.Item) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	item.ID = r.nextID
	item.Lifecycle = models.LifecycleActive
	item.CreatedAt = now
	item.UpdatedAt = now
	r.nextID++
	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryItemRepository) Update(_ context.Context, item models.Item) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, it := range r.items {
		if it.ID == item.ID && it.Lifecycle.Active() {
			it.Nome = item.Nome
			it.Tipo = item.Tipo
			it.Quantidade = item.Quantidade
			it.Preco = item.Preco
			it.Descricao = item.Descricao
			it.UpdatedAt = r.now().UTC()
			r.items[i] = it
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryItemRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, it := range r.items {
		if it.ID == id {
			r.items[i].Lifecycle = models.LifecycleDeleted
		}
	}
	return nil
}

func (r *InMemoryItemRepository) Stats(_ context.Context) (models.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s models.Stats
	tipos := map[string]struct{}{}
	for _, it := range r.items {
		if !it.Lifecycle.Active() {
			continue
		}
		s.TotalItens++
		s.TotalQuantidade += it.Quantidade
		s.ValorTotal += float64(it.Quantidade) * it.Preco
		tipos[it.Tipo] = struct{}{}
	}
	s.TiposDiferentes = len(tipos)
	s.ValorTotal = models.RoundMoney(s.ValorTotal)
	return s, nil
}

// Rows returns every stored row, deleted ones included.
func (r *InMemoryItemRepository) Rows() []models.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Item(nil), r.items...)
}

func (r *InMemoryItemRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = []models.Item{}
	r.nextID = 1
}
