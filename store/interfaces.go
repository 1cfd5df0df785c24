package store

import (
	"context"
	"time"

	"github.com/newsweave/newsweave/core"
)

// SeenSet tracks URLs the ingestion gateway has already observed.
// The set grows monotonically and is never pruned.
// Implementations must be thread-safe and support concurrent access.
type SeenSet interface {
	// Add records a URL as seen and reports whether it was newly added.
	// The add is atomic: the return value is the single source of truth
	// for the enqueue decision, so two racing gateways cannot both see
	// "new" for the same URL.
	Add(ctx context.Context, url string) (bool, error)

	// Contains reports whether a URL has already been seen.
	Contains(ctx context.Context, url string) (bool, error)
}

// Queue is the FIFO hand-off between the ingestion gateway and the
// embedding worker. Payloads are opaque bytes (JSON-encoded raw articles).
type Queue interface {
	// Push appends a payload to the queue.
	Push(ctx context.Context, payload []byte) error

	// Pop removes and returns the oldest payload. It does not block;
	// an empty queue returns ErrEmptyQueue.
	Pop(ctx context.Context) ([]byte, error)

	// Len returns the number of payloads currently queued.
	Len(ctx context.Context) (int64, error)
}

// ArticleRepository provides operations for persisted article records.
// Implementations must be thread-safe and support concurrent access.
type ArticleRepository interface {
	// InsertArticle persists an embedded article and returns the generated
	// identifier. The article is stored unclustered.
	InsertArticle(ctx context.Context, article *core.Article) (string, error)

	// GetArticle retrieves a single article by ID.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, id string) (*core.Article, error)

	// UnclusteredArticles returns every article with no cluster assignment.
	UnclusteredArticles(ctx context.Context) ([]*core.Article, error)

	// AllArticles returns every stored article. Used by migration tooling.
	AllArticles(ctx context.Context) ([]*core.Article, error)

	// MarkClustered assigns summaryID as the cluster of each listed article.
	// The update is conditional: an article whose cluster is already set is
	// left untouched. Returns the number of articles actually updated.
	MarkClustered(ctx context.Context, summaryID string, articleIDs []string) (int64, error)

	// UpdateEmbeddings replaces the embedding and processed timestamp of the
	// given articles, leaving cluster assignments untouched.
	UpdateEmbeddings(ctx context.Context, articles ...*core.Article) error
}

// SummaryRepository provides operations for event summary documents.
// Summaries are immutable after creation.
type SummaryRepository interface {
	// InsertSummary persists a summary and returns the generated identifier.
	InsertSummary(ctx context.Context, summary *core.Summary) (string, error)

	// GetSummary retrieves a single summary by ID.
	// Returns ErrNotFound if the summary doesn't exist.
	GetSummary(ctx context.Context, id string) (*core.Summary, error)
}

// CycleLock is a coarse mutual-exclusion guard for the clustering cycle,
// preventing two engine instances from clustering the same articles.
type CycleLock interface {
	// Acquire attempts to take the lock for at most ttl.
	// Returns false without error if another holder is active.
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)

	// Release gives the lock back. Releasing a lock this instance does not
	// hold is a no-op.
	Release(ctx context.Context) error
}
