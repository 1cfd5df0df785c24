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


package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

const (
	defaultEps            = 0.5
	defaultMinClusterSize = 2
	defaultOraclePause    = 5 * time.Second
	defaultOracleTimeout  = 2 * time.Minute
	defaultRunInterval    = 30 * time.Minute
	defaultLockTTL        = 25 * time.Minute

	// Only a snippet of each body goes to the summarizer; full articles
	// blow past the oracle's useful context for no extra signal.
	bodySnippetLimit = 1000
)

// Engine runs clustering cycles: fetch unclustered articles, group them
// by embedding proximity, and summarize each group through the oracle.
type Engine struct {
	articles       store.ArticleRepository
	summaries      store.SummaryRepository
	summarizer     ai.Summarizer
	lock           store.CycleLock
	eps            float64
	minClusterSize int
	oraclePause    time.Duration
	oracleTimeout  time.Duration
	runInterval    time.Duration
	lockTTL        time.Duration
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEps sets the DBSCAN cosine-distance radius.
func WithEps(eps float64) Option {
	return func(e *Engine) {
		if eps > 0 {
			e.eps = eps
		}
	}
}

// WithMinClusterSize sets the smallest group treated as an event.
func WithMinClusterSize(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.minClusterSize = n
		}
	}
}

// WithOraclePause sets the delay between consecutive oracle calls.
func WithOraclePause(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.oraclePause = d
		}
	}
}

// WithOracleTimeout bounds a single summarization call.
func WithOracleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.oracleTimeout = d
		}
	}
}

// WithRunInterval sets the delay between cycles in Run.
func WithRunInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.runInterval = d
		}
	}
}

// WithLockTTL sets how long a cycle may hold the leader lock.
func WithLockTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.lockTTL = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a clustering engine.
func NewEngine(articles store.ArticleRepository, summaries store.SummaryRepository, summarizer ai.Summarizer, lock store.CycleLock, opts ...Option) *Engine {
	e := &Engine{
		articles:       articles,
		summaries:      summaries,
		summarizer:     summarizer,
		lock:           lock,
		eps:            defaultEps,
		minClusterSize: defaultMinClusterSize,
		oraclePause:    defaultOraclePause,
		oracleTimeout:  defaultOracleTimeout,
		runInterval:    defaultRunInterval,
		lockTTL:        defaultLockTTL,
		logger:         slog.Default().With("component", "cluster"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCycle executes one clustering pass and returns the number of
// summaries written. If another process holds the cycle lock, it returns
// immediately with zero. One failing cluster does not abort the rest.
func (e *Engine) RunCycle(ctx context.Context) (int, error) {
	acquired, err := e.lock.Acquire(ctx, e.lockTTL)
	if err != nil {
		return 0, fmt.Errorf("acquire cycle lock: %w", err)
	}
	if !acquired {
		e.logger.Info("clustering cycle already running elsewhere, skipping")
		return 0, nil
	}
	defer func() {
		if err := e.lock.Release(context.WithoutCancel(ctx)); err != nil {
			e.logger.Error("release cycle lock failed", "error", err)
		}
	}()

	articles, err := e.articles.UnclusteredArticles(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch unclustered articles: %w", err)
	}

	embedded := make([]*core.Article, 0, len(articles))
	for _, article := range articles {
		if len(article.Embedding) > 0 {
			embedded = append(embedded, article)
		}
	}
	if len(embedded) < e.minClusterSize {
		e.logger.Info("not enough articles to cluster", "count", len(embedded))
		return 0, nil
	}

	if dims := embeddingDimensions(embedded); len(dims) > 1 {
		return 0, &MixedDimensionsError{Dimensions: dims}
	}

	vectors := make([][]float32, len(embedded))
	for i, article := range embedded {
		vectors[i] = article.Embedding
	}

	labels := DBSCAN(vectors, e.eps, e.minClusterSize)
	groups := make(map[int][]*core.Article)
	for i, label := range labels {
		if label == Noise {
			continue
		}
		groups[label] = append(groups[label], embedded[i])
	}

	e.logger.Info("clustering pass complete",
		"articles", len(embedded), "events", len(groups))

	labelsInOrder := make([]int, 0, len(groups))
	for label := range groups {
		labelsInOrder = append(labelsInOrder, label)
	}
	sort.Ints(labelsInOrder)

	written := 0
	var firstErr error
	for i, label := range labelsInOrder {
		if err := ctx.Err(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		if err := e.synthesize(ctx, groups[label]); err != nil {
			e.logger.Error("event synthesis failed", "size", len(groups[label]), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			written++
		}

		if i < len(labelsInOrder)-1 && e.oraclePause > 0 {
			if !sleepCtx(ctx, e.oraclePause) {
				break
			}
		}
	}
	return written, firstErr
}

// synthesize summarizes one event and marks its articles clustered.
func (e *Engine) synthesize(ctx context.Context, group []*core.Article) error {
	combined := CombineForSummary(group)

	octx, cancel := context.WithTimeout(ctx, e.oracleTimeout)
	summary, err := e.summarizer.SummarizeEvent(octx, combined)
	cancel()
	if err != nil {
		return fmt.Errorf("summarize event: %w", err)
	}

	ids := make([]string, len(group))
	for i, article := range group {
		ids[i] = article.ID
	}

	record := &core.Summary{
		Headline:          summary.Headline,
		Summary:           summary.Summary,
		Tags:              summary.Tags,
		CreatedAt:         time.Now().UTC(),
		RelatedArticleIDs: ids,
		ArticleCount:      len(ids),
	}
	summaryID, err := e.summaries.InsertSummary(ctx, record)
	if err != nil {
		return fmt.Errorf("store summary: %w", err)
	}

	updated, err := e.articles.MarkClustered(ctx, summaryID, ids)
	if err != nil {
		return fmt.Errorf("mark articles clustered: %w", err)
	}
	if updated != int64(len(ids)) {
		e.logger.Warn("some articles were already clustered",
			"summary_id", summaryID, "expected", len(ids), "updated", updated)
	}

	e.logger.Info("event summarized",
		"summary_id", summaryID, "headline", summary.Headline, "articles", len(ids))
	return nil
}

// CombineForSummary joins a group's articles into the oracle input text.
func CombineForSummary(group []*core.Article) string {
	var b strings.Builder
	for i, article := range group {
		body := article.Body
		if len(body) > bodySnippetLimit {
			// Cut at a rune boundary; a split rune would hand the
			// oracle invalid UTF-8.
			cut := bodySnippetLimit
			for cut > 0 && !utf8.RuneStart(body[cut]) {
				cut--
			}
			body = body[:cut]
		}
		fmt.Fprintf(&b, "Headline: %s\nBody: %s\n", article.Headline, body)
		if i < len(group)-1 {
			b.WriteString("---\n")
		}
	}
	return b.String()
}

// Run repeats clustering cycles until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.runInterval)
	defer ticker.Stop()

	for {
		count, err := e.RunCycle(ctx)
		if err != nil && ctx.Err() == nil {
			e.logger.Error("clustering cycle finished with errors", "summaries", count, "error", err)
		} else {
			e.logger.Info("clustering cycle finished", "summaries", count)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func embeddingDimensions(articles []*core.Article) []int {
	seen := make(map[int]bool)
	var dims []int
	for _, article := range articles {
		d := len(article.Embedding)
		if !seen[d] {
			seen[d] = true
			dims = append(dims, d)
		}
	}
	sort.Ints(dims)
	return dims
}

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
