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


// Package embed drains the raw-article queue, computes embeddings, and
// persists the articles to the document store.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/journal"
	"github.com/newsweave/newsweave/store"
)

const (
	// Only the leading part of the body carries signal for clustering;
	// embedding full articles wastes model context for no gain.
	bodyEmbedLimit = 500

	defaultWorkers      = 1
	defaultIdleDelay    = 10 * time.Second
	defaultErrorDelay   = 30 * time.Second
	defaultEmbedTimeout = 60 * time.Second
)

// Worker pops queued articles, embeds them, and writes them through to
// the article repository. Each pop is journaled until the article is
// durably stored, closing the crash window between pop and persist.
type Worker struct {
	queue        store.Queue
	journal      *journal.Journal
	embedder     ai.Embedder
	articles     store.ArticleRepository
	workers      int
	idleDelay    time.Duration
	errorDelay   time.Duration
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker)

// WithWorkers sets how many articles are embedded concurrently.
func WithWorkers(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithIdleDelay sets the pause after draining the queue dry.
func WithIdleDelay(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.idleDelay = d
		}
	}
}

// WithErrorDelay sets the backoff after a processing error.
func WithErrorDelay(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.errorDelay = d
		}
	}
}

// WithEmbedTimeout bounds a single embedding call.
func WithEmbedTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.embedTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// NewWorker creates an embedding worker.
func NewWorker(queue store.Queue, wal *journal.Journal, embedder ai.Embedder, articles store.ArticleRepository, opts ...Option) *Worker {
	w := &Worker{
		queue:        queue,
		journal:      wal,
		embedder:     embedder,
		articles:     articles,
		workers:      defaultWorkers,
		idleDelay:    defaultIdleDelay,
		errorDelay:   defaultErrorDelay,
		embedTimeout: defaultEmbedTimeout,
		logger:       slog.Default().With("component", "embed"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EmbeddingInput builds the text that is embedded for an article.
func EmbeddingInput(article *core.Article) string {
	return article.Headline + ". " + truncate(article.Body, bodyEmbedLimit)
}

// truncate caps s at limit bytes without splitting a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// DrainOnce pops and processes a single queued article. It reports
// whether an item was processed; a false return with a nil error means
// the queue was empty.
func (w *Worker) DrainOnce(ctx context.Context) (bool, error) {
	payload, err := w.queue.Pop(ctx)
	if err != nil {
		if errors.Is(err, store.ErrEmptyQueue) {
			return false, nil
		}
		return false, fmt.Errorf("pop queue: %w", err)
	}

	key, err := w.journal.Append(payload)
	if err != nil {
		// The item is already off the queue; losing the journal entry
		// must not lose the article, so process it anyway.
		w.logger.Error("journal append failed", "error", err)
		return true, w.process(ctx, payload, 0, false)
	}
	return true, w.process(ctx, payload, key, true)
}

// process embeds and persists one payload, then clears its journal entry.
func (w *Worker) process(ctx context.Context, payload []byte, key core.Fingerprint, journaled bool) error {
	clearEntry := func() {
		if !journaled {
			return
		}
		if err := w.journal.Remove(key); err != nil {
			w.logger.Error("journal remove failed", "error", err)
		}
	}

	article, err := store.UnmarshalQueueItem(payload)
	if err != nil {
		// Poison payloads are dropped; retrying can never succeed.
		w.logger.Error("dropping undecodable queue item", "error", err)
		clearEntry()
		return nil
	}

	ectx, cancel := context.WithTimeout(ctx, w.embedTimeout)
	vector, err := w.embedder.EmbedText(ectx, EmbeddingInput(article))
	cancel()
	if err != nil {
		return fmt.Errorf("embed %q: %w", article.URL, err)
	}

	article.Embedding = vector
	article.ProcessedAt = time.Now().UTC()

	if _, err := w.articles.InsertArticle(ctx, article); err != nil {
		return fmt.Errorf("persist %q: %w", article.URL, err)
	}

	clearEntry()
	w.logger.Debug("article embedded", "url", article.URL, "dimensions", len(vector))
	return nil
}

// ReplayJournal reprocesses payloads left over from a previous crash.
// Replayed items were already popped, so they exist nowhere else.
func (w *Worker) ReplayJournal(ctx context.Context) (int, error) {
	entries, err := w.journal.Entries()
	if err != nil {
		return 0, fmt.Errorf("read journal: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	w.logger.Info("replaying journaled articles", "count", len(entries))

	replayed := 0
	for key, payload := range entries {
		if err := ctx.Err(); err != nil {
			return replayed, err
		}
		if err := w.process(ctx, payload, key, true); err != nil {
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}

// Run drains the queue until the context is cancelled, replaying the
// journal first. With more than one worker configured, embedding runs on
// a goroutine pool.
func (w *Worker) Run(ctx context.Context) error {
	if _, err := w.ReplayJournal(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("journal replay failed", "error", err)
	}

	if w.workers <= 1 {
		return w.runSerial(ctx)
	}
	return w.runPooled(ctx)
}

func (w *Worker) runSerial(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, err := w.DrainOnce(ctx)
		switch {
		case err != nil:
			w.logger.Error("processing failed", "error", err)
			if !sleepCtx(ctx, w.errorDelay) {
				return ctx.Err()
			}
		case !processed:
			if !sleepCtx(ctx, w.idleDelay) {
				return ctx.Err()
			}
		}
	}
}

func (w *Worker) runPooled(ctx context.Context) error {
	pool, err := ants.NewPool(w.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}

		payload, err := w.queue.Pop(ctx)
		if err != nil {
			if !errors.Is(err, store.ErrEmptyQueue) {
				w.logger.Error("pop failed", "error", err)
				if !sleepCtx(ctx, w.errorDelay) {
					wg.Wait()
					return ctx.Err()
				}
				continue
			}
			wg.Wait()
			if !sleepCtx(ctx, w.idleDelay) {
				return ctx.Err()
			}
			continue
		}

		key, jerr := w.journal.Append(payload)
		journaled := jerr == nil
		if jerr != nil {
			w.logger.Error("journal append failed", "error", jerr)
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := w.process(ctx, payload, key, journaled); err != nil {
				w.logger.Error("processing failed", "error", err)
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			if err := w.process(ctx, payload, key, journaled); err != nil {
				w.logger.Error("processing failed", "error", err)
			}
		}
	}
}

// sleepCtx pauses for d and reports false if the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
