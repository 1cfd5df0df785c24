package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/store"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return mr, s
}

func TestStore_AddIsAtomicDecision(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, added)

	seen, err := s.Contains(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestStore_QueueFIFO(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, []byte("first")))
	require.NoError(t, s.Push(ctx, []byte("second")))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	payload, err := s.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", string(payload))

	payload, err = s.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(payload))

	_, err = s.Pop(ctx)
	assert.ErrorIs(t, err, store.ErrEmptyQueue)
}

func TestStore_CycleLock(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	other, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	defer other.Close()

	ok, err = other.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Release(ctx))

	ok, err = other.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Release_LeavesNewHoldersLock(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Acquire(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// The first holder's lock expires and another engine takes it.
	mr.FastForward(2 * time.Second)

	other, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	defer other.Close()

	ok, err = other.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// A stale release must not delete the new holder's lock.
	require.NoError(t, s.Release(ctx))
	got, err := mr.Get(s.lockKey)
	require.NoError(t, err)
	assert.Equal(t, other.lockToken, got)
}

func TestStore_Options(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := New("redis://"+mr.Addr(),
		WithSeenKey("custom_seen"),
		WithQueueKey("custom_queue"),
		WithLockKey("custom_lock"),
	)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Push(ctx, []byte("payload")))
	assert.True(t, mr.Exists("custom_queue"))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not-a-redis-url")
	assert.Error(t, err)
}
