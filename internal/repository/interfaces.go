package repository

import (
	"context"
	"time"
)

// Entry is one stored value with its bookkeeping.
type Entry struct {
	Session   string
	Key       string
	Value     string
	Format    string
	UpdatedAt time.Time
}

// KVRepo stores opaque documents per terminal session.
type KVRepo interface {
	Get(ctx context.Context, session, key string) (*Entry, error)
	Put(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, session, key string) error
	ListSessions(ctx context.Context) ([]string, error)
	// PruneBefore drops entries not updated since cutoff and returns how
	// many were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
