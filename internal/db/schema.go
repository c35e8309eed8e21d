package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS itens (
    id               BIGSERIAL PRIMARY KEY,
    nome             TEXT NOT NULL,
    tipo             TEXT NOT NULL,
    quantidade       INTEGER NOT NULL DEFAULT 0 CHECK (quantidade >= 0),
    descricao        TEXT NOT NULL DEFAULT '',
    preco            NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (preco >= 0),
    ativo            BOOLEAN NOT NULL DEFAULT TRUE,
    data_criacao     TIMESTAMPTZ NOT NULL DEFAULT now(),
    data_atualizacao TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_itens_ativo_atualizacao
    ON itens (ativo, data_atualizacao DESC)`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS itens (
    id               INTEGER PRIMARY KEY,
    nome             TEXT NOT NULL,
    tipo             TEXT NOT NULL,
    quantidade       INTEGER NOT NULL DEFAULT 0 CHECK (quantidade >= 0),
    descricao        TEXT NOT NULL DEFAULT '',
    preco            REAL NOT NULL DEFAULT 0 CHECK (preco >= 0),
    ativo            INTEGER NOT NULL DEFAULT 1,
    data_criacao     DATETIME NOT NULL,
    data_atualizacao DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_itens_ativo_atualizacao
    ON itens (ativo, data_atualizacao DESC)`,
}

// EnsureSchema creates the itens table and its index if they don't already exist.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := postgresSchema
	if dialect == SQLite {
		schema = sqliteSchema
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
