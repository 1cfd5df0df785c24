// Copyright 2026 Newsweave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of articles to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of articles)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates reembedding every article in the store.
type Reembedder struct {
	repo      store.ArticleRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ArticleIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo store.ArticleRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewArticleIterator(repo, config.BatchSize),
	}
}

// Run reembeds every article in the store with the configured embedder,
// reporting progress to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	all, err := r.repo.AllArticles(ctx)
	if err != nil {
		return fmt.Errorf("failed to query articles: %w", err)
	}

	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No articles found in store (0 articles)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d articles (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(articles []*core.Article) error {
		if err := r.processor.Process(ctx, articles); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(articles)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d articles in %v (%.1f articles/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
