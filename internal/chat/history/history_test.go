package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, limit int, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, limit, ttl), mr
}

func TestAppendAndRecent(t *testing.T) {
	store, _ := newTestStore(t, 10, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "user-1", Entry{Message: "tiket hari ini", Reply: "Tiket terbuka hari ini:\n(no data)", At: time.Now().UTC()}))
	require.NoError(t, store.Append(ctx, "user-1", Entry{Message: "leads hari ini", Reply: "Leads masuk hari ini:\n(no data)", At: time.Now().UTC()}))

	entries, err := store.Recent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "leads hari ini", entries[0].Message)
	assert.Equal(t, "tiket hari ini", entries[1].Message)
}

func TestAppend_TrimsToLimit(t *testing.T) {
	store, _ := newTestStore(t, 3, time.Hour)
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Append(ctx, "user-1", Entry{Message: msg}))
	}

	entries, err := store.Recent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e", entries[0].Message)
	assert.Equal(t, "c", entries[2].Message)
}

func TestAppend_SetsTTL(t *testing.T) {
	store, mr := newTestStore(t, 10, time.Hour)

	require.NoError(t, store.Append(context.Background(), "user-1", Entry{Message: "halo"}))

	ttl := mr.TTL("chat:history:user-1")
	assert.True(t, ttl > 0 && ttl <= time.Hour)
}

func TestRecent_SessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t, 10, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "user-1", Entry{Message: "satu"}))
	require.NoError(t, store.Append(ctx, "user-2", Entry{Message: "dua"}))

	entries, err := store.Recent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "satu", entries[0].Message)
}

func TestRecent_EmptySession(t *testing.T) {
	store, _ := newTestStore(t, 10, time.Hour)

	entries, err := store.Recent(context.Background(), "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
