package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/db"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

const defaultQueryTimeout = 3 * time.Second

// SQLItemRepository stores items in the itens table. Every operation is a
// single auto-committed statement.
type SQLItemRepository struct {
	db      *sql.DB
	queries itemQueries
	timeout time.Duration
	now     func() time.Time
}

// SQLOption configures a SQLItemRepository.
type SQLOption func(*SQLItemRepository)

// WithQueryTimeout bounds each statement.
func WithQueryTimeout(d time.Duration) SQLOption {
	return func(r *SQLItemRepository) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock replaces time.Now for the timestamp columns.
func WithClock(now func() time.Time) SQLOption {
	return func(r *SQLItemRepository) {
		r.now = now
	}
}

func NewSQLItemRepository(database *sql.DB, dialect db.Dialect, opts ...SQLOption) *SQLItemRepository {
	r := &SQLItemRepository{
		db:      database,
		queries: newItemQueries(dialect),
		timeout: defaultQueryTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var it models.Item
	var ativo bool
	err := row.Scan(&it.ID, &it.Nome, &it.Tipo, &it.Quantidade, &it.Preco, &it.Descricao, &ativo, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return models.Item{}, err
	}
	it.Lifecycle = models.LifecycleFromFlag(ativo)
	return it, nil
}

func (r *SQLItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	query, args, err := r.queries.list(filter)
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLItemRepository) GetByID(ctx context.Context, id int64) (models.Item, error) {
	query, args, err := r.queries.getByID(id)
	if err != nil {
		return models.Item{}, fmt.Errorf("building get query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

func (r *SQLItemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	now := r.now().UTC()
	query, args, err := r.queries.insert(item, now)
	if err != nil {
		return models.Item{}, fmt.Errorf("building insert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return models.Item{}, fmt.Errorf("creating item: %w", err)
	}

	item.Lifecycle = models.LifecycleActive
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *SQLItemRepository) Update(ctx context.Context, item models.Item) (bool, error) {
	query, args, err := r.queries.update(item, r.now().UTC())
	if err != nil {
		return false, fmt.Errorf("building update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return n > 0, nil
}

func (r *SQLItemRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.queries.softDelete(id)
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

func (r *SQLItemRepository) Stats(ctx context.Context) (models.Stats, error) {
	query, args, err := r.queries.stats()
	if err != nil {
		return models.Stats{}, fmt.Errorf("building stats query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var s models.Stats
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.TotalItens, &s.TotalQuantidade, &s.ValorTotal, &s.TiposDiferentes)
	if err != nil {
		return models.Stats{}, fmt.Errorf("computing stats: %w", err)
	}
	s.ValorTotal = models.RoundMoney(s.ValorTotal)
	return s, nil
}
