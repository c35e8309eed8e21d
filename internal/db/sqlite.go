package db

import (
	"database/sql"
	"fmt"
)

// OpenSQLite opens a SQLite database and configures pragmas.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(string(SQLite), path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Pragmas are per connection, and every connection to :memory: is a
	// separate database.
	db.SetMaxOpenConns(1)

	// LIKE must be case-sensitive to match Postgres behaviour.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA case_sensitive_like=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}
