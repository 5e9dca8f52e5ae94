package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/scopecurve/internal/db"
)

// FailingKeyUoW is a UnitOfWork whose writes to one store key fail with Err.
// Writes to other keys go through first, so tests can check that a save
// interrupted halfway leaves nothing behind.
type FailingKeyUoW struct {
	DB  *sql.DB
	Key string
	Err error
}

func (u *FailingKeyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingKeyTx{DBTX: tx, key: u.Key, err: u.Err})
	})
}

type failingKeyTx struct {
	db.DBTX
	key string
	err error
}

// ExecContext fails statements whose second argument is the key; the store
// binds (session, key, ...) in that order.
func (f *failingKeyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if len(args) > 1 && args[1] == f.key {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
