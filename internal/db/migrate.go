package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Session-scoped key/value store. Each terminal session keeps its own
	// model document and prompt state under (session, key).
	`CREATE TABLE IF NOT EXISTS kv_store (
		session    TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (session, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kv_store_updated ON kv_store(updated_at)`,

	// Documents written before the format column existed are CSV.
	`ALTER TABLE kv_store ADD COLUMN format TEXT NOT NULL DEFAULT 'csv'`,
}
