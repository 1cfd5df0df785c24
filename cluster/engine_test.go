package cluster

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/ai/mock"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store/memory"
)

func insertEmbedded(t *testing.T, s *memory.Store, url string, embedding []float32) string {
	t.Helper()
	id, err := s.InsertArticle(context.Background(), &core.Article{
		Source:    "Test",
		URL:       url,
		Headline:  "Headline for " + url,
		Body:      "Body for " + url,
		Embedding: embedding,
	})
	require.NoError(t, err)
	return id
}

func newTestEngine(s *memory.Store, summarizer ai.Summarizer, opts ...Option) *Engine {
	base := []Option{WithOraclePause(0)}
	return NewEngine(s, s, summarizer, s, append(base, opts...)...)
}

func TestEngine_RunCycle_SummarizesEvents(t *testing.T) {
	s := memory.New()
	summarizer := mock.NewMockSummarizer()
	e := newTestEngine(s, summarizer)
	ctx := context.Background()

	// Three near-duplicates form one event; an outlier stays noise.
	idA := insertEmbedded(t, s, "https://example.com/a", []float32{1, 0, 0})
	idB := insertEmbedded(t, s, "https://example.com/b", []float32{0.99, 0.1, 0})
	idC := insertEmbedded(t, s, "https://example.com/c", []float32{0.98, 0.15, 0})
	idD := insertEmbedded(t, s, "https://example.com/d", []float32{0, 0, 1})

	count, err := e.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, summarizer.CallCount())

	for _, id := range []string{idA, idB, idC} {
		article, err := s.GetArticle(ctx, id)
		require.NoError(t, err)
		assert.True(t, article.Clustered(), "article %s should be clustered", id)
	}
	outlier, err := s.GetArticle(ctx, idD)
	require.NoError(t, err)
	assert.False(t, outlier.Clustered())

	clusteredA, err := s.GetArticle(ctx, idA)
	require.NoError(t, err)
	summary, err := s.GetSummary(ctx, clusteredA.ClusterID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ArticleCount)
	assert.ElementsMatch(t, []string{idA, idB, idC}, summary.RelatedArticleIDs)
}

func TestEngine_RunCycle_TooFewArticles(t *testing.T) {
	s := memory.New()
	summarizer := mock.NewMockSummarizer()
	e := newTestEngine(s, summarizer)

	insertEmbedded(t, s, "https://example.com/a", []float32{1, 0})

	count, err := e.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, summarizer.CallCount())
}

func TestEngine_RunCycle_SkipsArticlesWithoutEmbedding(t *testing.T) {
	s := memory.New()
	summarizer := mock.NewMockSummarizer()
	e := newTestEngine(s, summarizer)
	ctx := context.Background()

	_, err := s.InsertArticle(ctx, &core.Article{Source: "Test", URL: "https://example.com/raw"})
	require.NoError(t, err)
	insertEmbedded(t, s, "https://example.com/a", []float32{1, 0})

	count, err := e.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngine_RunCycle_MixedDimensions(t *testing.T) {
	s := memory.New()
	e := newTestEngine(s, mock.NewMockSummarizer())

	insertEmbedded(t, s, "https://example.com/a", []float32{1, 0})
	insertEmbedded(t, s, "https://example.com/b", []float32{1, 0, 0})

	_, err := e.RunCycle(context.Background())

	var mixed *MixedDimensionsError
	require.ErrorAs(t, err, &mixed)
	assert.Equal(t, []int{2, 3}, mixed.Dimensions)
}

func TestEngine_RunCycle_LockHeldElsewhere(t *testing.T) {
	s := memory.New()
	summarizer := mock.NewMockSummarizer()
	e := newTestEngine(s, summarizer)
	ctx := context.Background()

	insertEmbedded(t, s, "https://example.com/a", []float32{1, 0})
	insertEmbedded(t, s, "https://example.com/b", []float32{1, 0})

	held, err := s.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	count, err := e.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, summarizer.CallCount())
}

func TestEngine_RunCycle_PartialFailure(t *testing.T) {
	s := memory.New()
	summarizer := mock.NewMockSummarizer()
	calls := 0
	summarizer.SummarizeFunc = func(ctx context.Context, combined string) (*ai.EventSummary, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("oracle timeout")
		}
		return &ai.EventSummary{Headline: "Event", Summary: "What happened.", Tags: []string{"news"}}, nil
	}
	e := newTestEngine(s, summarizer)
	ctx := context.Background()

	// Two well-separated events.
	insertEmbedded(t, s, "https://example.com/a1", []float32{1, 0, 0})
	insertEmbedded(t, s, "https://example.com/a2", []float32{0.99, 0.1, 0})
	insertEmbedded(t, s, "https://example.com/b1", []float32{0, 0, 1})
	insertEmbedded(t, s, "https://example.com/b2", []float32{0, 0.1, 0.99})

	count, err := e.RunCycle(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, count)

	// The failed event's articles stay unclustered for the next cycle.
	unclustered, err := s.UnclusteredArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, unclustered, 2)
}

func TestCombineForSummary(t *testing.T) {
	group := []*core.Article{
		{Headline: "First", Body: "Alpha body."},
		{Headline: "Second", Body: strings.Repeat("x", 1500)},
	}

	combined := CombineForSummary(group)
	assert.Contains(t, combined, "Headline: First\nBody: Alpha body.\n")
	assert.Contains(t, combined, "---\n")
	assert.Contains(t, combined, "Headline: Second\nBody: "+strings.Repeat("x", 1000)+"\n")
	assert.NotContains(t, combined, strings.Repeat("x", 1001))
}

func TestCombineForSummary_SnippetCapRespectsRuneBoundary(t *testing.T) {
	// 334 euro signs are 1002 bytes; the 1000-byte snippet cap falls
	// inside a rune, which must be dropped whole.
	group := []*core.Article{
		{Headline: "Unicode", Body: strings.Repeat("€", 334)},
	}

	combined := CombineForSummary(group)
	assert.True(t, utf8.ValidString(combined))
	assert.Contains(t, combined, "Body: "+strings.Repeat("€", 333)+"\n")
	assert.NotContains(t, combined, strings.Repeat("€", 334))
}
