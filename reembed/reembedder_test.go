package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/ai/mock"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store/memory"
)

func seedArticles(t *testing.T, s *memory.Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.InsertArticle(context.Background(), &core.Article{
			Source:    "Test",
			URL:       fmt.Sprintf("https://example.com/%d", i),
			Headline:  fmt.Sprintf("Headline %d", i),
			Body:      "Body text.",
			Embedding: []float32{1, 2, 3},
		})
		require.NoError(t, err)
	}
}

func TestReembedder_Run(t *testing.T) {
	s := memory.New()
	seedArticles(t, s, 5)
	embedder := mock.NewMockEmbedder()

	var out bytes.Buffer
	r := NewReembedder(s, embedder, &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &out)

	require.NoError(t, r.Run(context.Background()))

	articles, err := s.AllArticles(context.Background())
	require.NoError(t, err)
	for _, article := range articles {
		assert.Len(t, article.Embedding, 384)
		assert.False(t, article.ProcessedAt.IsZero())
	}
	assert.Contains(t, out.String(), "Reembedding complete. Processed 5 articles")
}

func TestReembedder_Run_EmptyStore(t *testing.T) {
	s := memory.New()
	var out bytes.Buffer
	r := NewReembedder(s, mock.NewMockEmbedder(), nil, &out)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No articles found")
}

func TestReembedder_Run_EmbedFailure(t *testing.T) {
	s := memory.New()
	seedArticles(t, s, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model offline")
	}

	var out bytes.Buffer
	r := NewReembedder(s, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &out)

	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "after 2 attempts")
}
