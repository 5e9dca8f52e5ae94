package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/scopecurve/internal/db"
)

// SQLiteKVRepo implements KVRepo using a SQLite database.
type SQLiteKVRepo struct {
	db db.DBTX
}

// NewSQLiteKVRepo creates a new SQLiteKVRepo.
func NewSQLiteKVRepo(conn db.DBTX) *SQLiteKVRepo {
	return &SQLiteKVRepo{db: conn}
}

func (r *SQLiteKVRepo) Get(ctx context.Context, session, key string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session, key, value, format, updated_at FROM kv_store WHERE session = ? AND key = ?`,
		session, key)

	var e Entry
	var updated string
	if err := row.Scan(&e.Session, &e.Key, &e.Value, &e.Format, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("kv %s/%s: %w", session, key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning kv %s/%s: %w", session, key, err)
	}
	e.UpdatedAt = parseTimestamp(updated)
	return &e, nil
}

func (r *SQLiteKVRepo) Put(ctx context.Context, e *Entry) error {
	format := e.Format
	if format == "" {
		format = "csv"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_store (session, key, value, format, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session, key) DO UPDATE SET value = excluded.value,
			format = excluded.format, updated_at = excluded.updated_at`,
		e.Session, e.Key, e.Value, format, formatTimestamp(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("writing kv %s/%s: %w", e.Session, e.Key, err)
	}
	return nil
}

func (r *SQLiteKVRepo) Delete(ctx context.Context, session, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE session = ? AND key = ?`, session, key)
	if err != nil {
		return fmt.Errorf("deleting kv %s/%s: %w", session, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting kv %s/%s: %w", session, key, err)
	}
	if n == 0 {
		return fmt.Errorf("kv %s/%s: %w", session, key, ErrNotFound)
	}
	return nil
}

func (r *SQLiteKVRepo) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT session FROM kv_store ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteKVRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE updated_at < ?`, formatTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning kv store: %w", err)
	}
	return res.RowsAffected()
}
