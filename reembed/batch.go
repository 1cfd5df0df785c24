package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/embed"
	"github.com/newsweave/newsweave/store"
)

// BatchProcessor regenerates embeddings for batches of articles.
type BatchProcessor struct {
	repo           store.ArticleRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a batch processor with the given retry policy.
func NewBatchProcessor(repo store.ArticleRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of articles and writes the new vectors back.
// The embedding input is built the same way the queue worker builds it,
// so reembedded articles cluster consistently with fresh ones.
func (bp *BatchProcessor) Process(ctx context.Context, articles []*core.Article) error {
	if len(articles) == 0 {
		return nil
	}

	texts := make([]string, len(articles))
	for i, article := range articles {
		texts[i] = embed.EmbeddingInput(article)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(articles) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(articles), len(embeddings))
	}

	now := time.Now().UTC()
	for i := range articles {
		articles[i].Embedding = embeddings[i]
		articles[i].ProcessedAt = now
	}

	if err := bp.repo.UpdateEmbeddings(ctx, articles...); err != nil {
		return fmt.Errorf("failed to update articles: %w", err)
	}

	return nil
}
