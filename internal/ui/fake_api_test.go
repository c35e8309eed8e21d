package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

type fakeAPI struct {
	mu sync.Mutex

	ListItemsFunc  func(ctx context.Context, f client.Filter) ([]client.Item, error)
	GetItemFunc    func(ctx context.Context, id int64) (client.Item, error)
	CreateItemFunc func(ctx context.Context, in client.ItemInput) (string, error)
	UpdateItemFunc func(ctx context.Context, in client.ItemInput) (string, error)
	DeleteItemFunc func(ctx context.Context, id int64) (string, error)
	StatsFunc      func(ctx context.Context) (models.Stats, error)

	ListItemsCalls  int
	GetItemCalls    int
	CreateItemCalls int
	UpdateItemCalls int
	DeleteItemCalls int
	StatsCalls      int

	filters []client.Filter
	inputs  []client.ItemInput
}

func (m *fakeAPI) ListItems(ctx context.Context, f client.Filter) ([]client.Item, error) {
	m.mu.Lock()
	m.ListItemsCalls++
	m.filters = append(m.filters, f)
	fn := m.ListItemsFunc
	m.mu.Unlock()
	if fn == nil {
		return []client.Item{}, nil
	}
	return fn(ctx, f)
}

func (m *fakeAPI) GetItem(ctx context.Context, id int64) (client.Item, error) {
	m.mu.Lock()
	m.GetItemCalls++
	fn := m.GetItemFunc
	m.mu.Unlock()
	if fn == nil {
		return client.Item{}, errors.New("GetItemFunc not set")
	}
	return fn(ctx, id)
}

func (m *fakeAPI) CreateItem(ctx context.Context, in client.ItemInput) (string, error) {
	m.mu.Lock()
	m.CreateItemCalls++
	m.inputs = append(m.inputs, in)
	fn := m.CreateItemFunc
	m.mu.Unlock()
	if fn == nil {
		return "Item criado com sucesso", nil
	}
	return fn(ctx, in)
}

func (m *fakeAPI) UpdateItem(ctx context.Context, in client.ItemInput) (string, error) {
	m.mu.Lock()
	m.UpdateItemCalls++
	m.inputs = append(m.inputs, in)
	fn := m.UpdateItemFunc
	m.mu.Unlock()
	if fn == nil {
		return "Item atualizado com sucesso", nil
	}
	return fn(ctx, in)
}

func (m *fakeAPI) DeleteItem(ctx context.Context, id int64) (string, error) {
	m.mu.Lock()
	m.DeleteItemCalls++
	fn := m.DeleteItemFunc
	m.mu.Unlock()
	if fn == nil {
		return "Item excluído com sucesso", nil
	}
	return fn(ctx, id)
}

func (m *fakeAPI) Stats(ctx context.Context) (models.Stats, error) {
	m.mu.Lock()
	m.StatsCalls++
	fn := m.StatsFunc
	m.mu.Unlock()
	if fn == nil {
		return models.Stats{}, nil
	}
	return fn(ctx)
}

func (m *fakeAPI) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListItemsCalls
}

func (m *fakeAPI) lastFilter() client.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.filters) == 0 {
		return client.Filter{}
	}
	return m.filters[len(m.filters)-1]
}
