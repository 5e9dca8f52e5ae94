package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/scopecurve/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory session store, migrated and closed
// with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory session store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
