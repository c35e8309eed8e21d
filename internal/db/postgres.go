package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour of an open connection. Its value is also the
// database/sql driver name.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// ParseDialect accepts the driver names used in configuration.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// Options describe how to reach the database.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Connect opens the configured database, verifies it answers and makes sure
// the itens table exists.
func Connect(ctx context.Context, opts Options) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, "", err
	}

	if opts.DSN == "" {
		return nil, "", fmt.Errorf("database DSN not configured (set DATABASE_URL or database.dsn)")
	}

	var db *sql.DB
	switch dialect {
	case SQLite:
		db, err = OpenSQLite(opts.DSN)
	default:
		db, err = sql.Open(string(Postgres), opts.DSN)
		if err != nil {
			err = fmt.Errorf("failed to open database: %w", err)
		}
	}
	if err != nil {
		return nil, "", err
	}

	if dialect == Postgres && opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := EnsureSchema(ctx, db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, dialect, nil
}
