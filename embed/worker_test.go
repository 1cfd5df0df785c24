package embed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/ai/mock"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/journal"
	"github.com/newsweave/newsweave/store"
	"github.com/newsweave/newsweave/store/memory"
)

func newTestWorker(t *testing.T, s *memory.Store, embedder *mock.MockEmbedder, opts ...Option) *Worker {
	wal, err := journal.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { wal.Close() })
	return NewWorker(s, wal, embedder, s, opts...)
}

func enqueue(t *testing.T, s *memory.Store, article *core.Article) {
	payload, err := store.MarshalQueueItem(article)
	require.NoError(t, err)
	require.NoError(t, s.Push(context.Background(), payload))
}

func TestWorker_DrainOnce(t *testing.T) {
	s := memory.New()
	embedder := mock.NewMockEmbedder()
	w := newTestWorker(t, s, embedder)
	ctx := context.Background()

	enqueue(t, s, &core.Article{
		Source:   "Test",
		URL:      "https://example.com/a",
		Headline: "Headline",
		Body:     "Body text.",
	})

	processed, err := w.DrainOnce(ctx)
	require.NoError(t, err)
	assert.True(t, processed)

	articles, err := s.AllArticles(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Len(t, articles[0].Embedding, 384)
	assert.False(t, articles[0].ProcessedAt.IsZero())

	n, err := w.journal.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWorker_DrainOnce_EmptyQueue(t *testing.T) {
	s := memory.New()
	w := newTestWorker(t, s, mock.NewMockEmbedder())

	processed, err := w.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestWorker_DrainOnce_EmbedErrorKeepsJournalEntry(t *testing.T) {
	s := memory.New()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model offline")
	}
	w := newTestWorker(t, s, embedder)

	enqueue(t, s, &core.Article{Source: "Test", URL: "https://example.com/a", Headline: "h", Body: "b"})

	processed, err := w.DrainOnce(context.Background())
	assert.True(t, processed)
	assert.Error(t, err)

	// The article is lost from the queue but survives in the journal.
	n, err := w.journal.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWorker_DrainOnce_PoisonPayloadDropped(t *testing.T) {
	s := memory.New()
	w := newTestWorker(t, s, mock.NewMockEmbedder())
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, []byte("not json")))

	processed, err := w.DrainOnce(ctx)
	require.NoError(t, err)
	assert.True(t, processed)

	n, err := w.journal.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	articles, err := s.AllArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestWorker_ReplayJournal(t *testing.T) {
	s := memory.New()
	w := newTestWorker(t, s, mock.NewMockEmbedder())
	ctx := context.Background()

	payload, err := store.MarshalQueueItem(&core.Article{
		Source: "Test", URL: "https://example.com/orphan", Headline: "h", Body: "b",
	})
	require.NoError(t, err)
	_, err = w.journal.Append(payload)
	require.NoError(t, err)

	replayed, err := w.ReplayJournal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)

	articles, err := s.AllArticles(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/orphan", articles[0].URL)

	n, err := w.journal.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEmbeddingInput(t *testing.T) {
	long := strings.Repeat("x", 800)
	article := &core.Article{Headline: "Headline", Body: long}

	input := EmbeddingInput(article)
	assert.True(t, strings.HasPrefix(input, "Headline. "))
	assert.Len(t, input, len("Headline. ")+500)
}

func TestEmbeddingInput_ShortBody(t *testing.T) {
	article := &core.Article{Headline: "Headline", Body: "short"}
	assert.Equal(t, "Headline. short", EmbeddingInput(article))
}

func TestEmbeddingInput_CapRespectsRuneBoundary(t *testing.T) {
	// 167 euro signs are 501 bytes; the 500-byte cap falls inside the
	// last rune, which must be dropped whole.
	article := &core.Article{Headline: "Headline", Body: strings.Repeat("€", 167)}

	input := EmbeddingInput(article)
	assert.True(t, utf8.ValidString(input))
	assert.Equal(t, len("Headline. ")+498, len(input))
	assert.True(t, strings.HasSuffix(input, "€"))
}
