package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/scopecurve/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_PutAndGet(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, &Entry{Session: "s1", Key: "model", Value: "#PROJECT", UpdatedAt: at}))

	got, err := repo.Get(ctx, "s1", "model")
	require.NoError(t, err)
	assert.Equal(t, "#PROJECT", got.Value)
	assert.Equal(t, "csv", got.Format)
	assert.True(t, at.Equal(got.UpdatedAt))
}

func TestKVRepo_PutOverwrites(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &Entry{Session: "s1", Key: "model", Value: "v1"}))
	require.NoError(t, repo.Put(ctx, &Entry{Session: "s1", Key: "model", Value: "v2", Format: "json"}))

	got, err := repo.Get(ctx, "s1", "model")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Value)
	assert.Equal(t, "json", got.Format)
}

func TestKVRepo_SessionsAreIsolated(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &Entry{Session: "a", Key: "model", Value: "A"}))
	require.NoError(t, repo.Put(ctx, &Entry{Session: "b", Key: "model", Value: "B"}))

	got, err := repo.Get(ctx, "b", "model")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Value)

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sessions)
}

func TestKVRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVRepo_Delete(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &Entry{Session: "s1", Key: "prompt", Value: "{}"}))
	require.NoError(t, repo.Delete(ctx, "s1", "prompt"))

	_, err := repo.Get(ctx, "s1", "prompt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "s1", "prompt"), ErrNotFound)
}

func TestKVRepo_PruneBefore(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, &Entry{Session: "old", Key: "model", Value: "x", UpdatedAt: old}))
	require.NoError(t, repo.Put(ctx, &Entry{Session: "new", Key: "model", Value: "y", UpdatedAt: recent}))

	n, err := repo.PruneBefore(ctx, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, sessions)
}
