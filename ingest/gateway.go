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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsweave/newsweave/store"
)

const (
	defaultMaxPages     = 10
	defaultPollInterval = 15 * time.Minute
)

// Gateway polls a set of sources and enqueues articles not seen before.
type Gateway struct {
	sources      []Source
	seen         store.SeenSet
	queue        store.Queue
	maxPages     int
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMaxPages caps how many pages are walked per source per batch.
func WithMaxPages(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxPages = n
		}
	}
}

// WithPollInterval sets the delay between ingestion cycles in Run.
func WithPollInterval(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.pollInterval = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// NewGateway creates a gateway over the given sources.
func NewGateway(sources []Source, seen store.SeenSet, queue store.Queue, opts ...Option) *Gateway {
	g := &Gateway{
		sources:      sources,
		seen:         seen,
		queue:        queue,
		maxPages:     defaultMaxPages,
		pollInterval: defaultPollInterval,
		logger:       slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IngestBatch walks one source's pages and enqueues unseen articles,
// returning how many were enqueued. Pagination stops at the page cap, on
// an empty page, or on a page that yields nothing new: providers return
// newest-first, so an all-duplicates page means the rest is old news.
func (g *Gateway) IngestBatch(ctx context.Context, source Source) (int, error) {
	total := 0

	for page := 1; page <= g.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		articles, err := source.FetchPage(ctx, page)
		if err != nil {
			return total, fmt.Errorf("fetch %s page %d: %w", source.Name(), page, err)
		}
		if len(articles) == 0 {
			break
		}

		enqueued := 0
		for _, article := range articles {
			if article.URL == "" {
				continue
			}
			added, err := g.seen.Add(ctx, article.URL)
			if err != nil {
				return total, fmt.Errorf("dedup check: %w", err)
			}
			if !added {
				continue
			}

			payload, err := store.MarshalQueueItem(article)
			if err != nil {
				g.logger.Warn("skipping unserializable article",
					"source", source.Name(), "url", article.URL, "error", err)
				continue
			}
			if err := g.queue.Push(ctx, payload); err != nil {
				return total, fmt.Errorf("enqueue: %w", err)
			}
			enqueued++
		}

		total += enqueued
		g.logger.Debug("ingested page",
			"source", source.Name(), "page", page,
			"fetched", len(articles), "new", enqueued)

		if enqueued == 0 {
			break
		}
	}

	return total, nil
}

// RunCycle ingests from every source once. A failing source does not
// stop the others; the first error is returned after all sources ran.
func (g *Gateway) RunCycle(ctx context.Context) (int, error) {
	total := 0
	var firstErr error

	for _, source := range g.sources {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		count, err := g.IngestBatch(ctx, source)
		total += count
		if err != nil {
			g.logger.Error("source ingestion failed",
				"source", source.Name(), "enqueued", count, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		g.logger.Info("source ingested", "source", source.Name(), "enqueued", count)
	}

	return total, firstErr
}

// Run polls all sources on the configured interval until the context is
// cancelled. Cycle errors are logged and the loop keeps going.
func (g *Gateway) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		count, err := g.RunCycle(ctx)
		if err != nil && ctx.Err() == nil {
			g.logger.Error("ingestion cycle finished with errors", "enqueued", count, "error", err)
		} else {
			g.logger.Info("ingestion cycle finished", "enqueued", count)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
