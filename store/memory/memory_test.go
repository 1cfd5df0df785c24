package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

func TestStore_AddIsAtomicDecision(t *testing.T) {
	s := New()
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
	s := New()
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

func TestStore_MarkClusteredGuard(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := &core.Article{Source: "Test", URL: "https://example.com/a"}
	b := &core.Article{Source: "Test", URL: "https://example.com/b"}
	idA, err := s.InsertArticle(ctx, a)
	require.NoError(t, err)
	idB, err := s.InsertArticle(ctx, b)
	require.NoError(t, err)

	updated, err := s.MarkClustered(ctx, "summary-1", []string{idA, idB})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	// A second marking attempt must not overwrite the first assignment.
	updated, err = s.MarkClustered(ctx, "summary-2", []string{idA, idB})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	got, err := s.GetArticle(ctx, idA)
	require.NoError(t, err)
	assert.Equal(t, "summary-1", got.ClusterID)
}

func TestStore_UnclusteredArticles(t *testing.T) {
	s := New()
	ctx := context.Background()

	idA, err := s.InsertArticle(ctx, &core.Article{Source: "Test", URL: "https://example.com/a"})
	require.NoError(t, err)
	_, err = s.InsertArticle(ctx, &core.Article{Source: "Test", URL: "https://example.com/b"})
	require.NoError(t, err)

	_, err = s.MarkClustered(ctx, "summary-1", []string{idA})
	require.NoError(t, err)

	unclustered, err := s.UnclusteredArticles(ctx)
	require.NoError(t, err)
	require.Len(t, unclustered, 1)
	assert.Equal(t, "https://example.com/b", unclustered[0].URL)
}

func TestStore_CycleLock(t *testing.T) {
	s := New()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Release(ctx))

	ok, err = s.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_GetSummary_NotFound(t *testing.T) {
	s := New()
	_, err := s.GetSummary(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
