// Package ingest fetches articles from external news providers and feeds
// new ones into the processing queue. Deduplication happens at enqueue
// time: a URL enters the queue at most once for the lifetime of the seen
// set, regardless of how many providers or polling cycles surface it.
package ingest

import (
	"context"

	"github.com/newsweave/newsweave/core"
)

// Source is a paginated news provider. Pages are numbered from 1.
// An empty slice with a nil error means the provider has no more results.
type Source interface {
	Name() string
	FetchPage(ctx context.Context, page int) ([]*core.Article, error)
}
