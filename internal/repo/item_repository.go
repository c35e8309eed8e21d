package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

// ItemRepository defines the data operations on items. Reads only ever see
// active items.
type ItemRepository interface {
	List(ctx context.Context, filter ItemFilter) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (models.Item, error)
	Create(ctx context.Context, item models.Item) (models.Item, error)
	// Update overwrites the mutable fields of an active item and reports
	// whether a row matched.
	Update(ctx context.Context, item models.Item) (bool, error)
	// Delete marks the item as deleted whatever its current state.
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (models.Stats, error)
}

// ErrItemNotFound is returned when no active item has the requested id.
var ErrItemNotFound = errors.New("item not found")
