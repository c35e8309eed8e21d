package repo

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rogerio-castellano/gerenciador-itens/internal/db"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

const itemsTable = "itens"

var itemColumns = []string{
	"id", "nome", "tipo", "quantidade", "preco", "descricao", "ativo", "data_criacao", "data_atualizacao",
}

// itemQueries wraps squirrel so every statement uses bound parameters in the
// placeholder style of the dialect.
type itemQueries struct {
	sq squirrel.StatementBuilderType
}

func newItemQueries(dialect db.Dialect) itemQueries {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if dialect == db.Postgres {
		format = squirrel.Dollar
	}
	return itemQueries{sq: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// likePattern escapes LIKE wildcards in v and wraps it for a substring match.
func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(v) + "%"
}

func (q itemQueries) list(f ItemFilter) (string, []any, error) {
	sel := q.sq.Select(itemColumns...).From(itemsTable).Where(squirrel.Eq{"ativo": true})

	if f.Tipo != "" {
		sel = sel.Where(`tipo LIKE ? ESCAPE '\'`, likePattern(f.Tipo))
	}
	if f.Nome != "" {
		sel = sel.Where(`nome LIKE ? ESCAPE '\'`, likePattern(f.Nome))
	}

	return sel.OrderBy("data_atualizacao DESC", "id DESC").ToSql()
}

func (q itemQueries) getByID(id int64) (string, []any, error) {
	return q.sq.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": id, "ativo": true}).
		ToSql()
}

func (q itemQueries) insert(item models.Item, now time.Time) (string, []any, error) {
	return q.sq.Insert(itemsTable).
		Columns("nome", "tipo", "quantidade", "preco", "descricao", "ativo", "data_criacao", "data_atualizacao").
		Values(item.Nome, item.Tipo, item.Quantidade, item.Preco, item.Descricao, true, now, now).
		Suffix("RETURNING id").
		ToSql()
}

func (q itemQueries) update(item models.Item, now time.Time) (string, []any, error) {
	return q.sq.Update(itemsTable).
		Set("nome", item.Nome).
		Set("tipo", item.Tipo).
		Set("quantidade", item.Quantidade).
		Set("preco", item.Preco).
		Set("descricao", item.Descricao).
		Set("data_atualizacao", now).
		Where(squirrel.Eq{"id": item.ID, "ativo": true}).
		ToSql()
}

func (q itemQueries) softDelete(id int64) (string, []any, error) {
	return q.sq.Update(itemsTable).
		Set("ativo", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

func (q itemQueries) stats() (string, []any, error) {
	return q.sq.Select(
		"COUNT(*)",
		"COALESCE(SUM(quantidade), 0)",
		"COALESCE(SUM(quantidade * preco), 0)",
		"COUNT(DISTINCT tipo)",
	).From(itemsTable).Where(squirrel.Eq{"ativo": true}).ToSql()
}
