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

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

const (
	// DefaultBatchSize is the default number of articles fetched per batch
	DefaultBatchSize = 100
)

// ArticleIterator walks every stored article in batches.
type ArticleIterator struct {
	repo      store.ArticleRepository
	batchSize int
}

// NewArticleIterator creates an iterator with the given batch size
// (defaulted when <= 0).
func NewArticleIterator(repo store.ArticleRepository, batchSize int) *ArticleIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ArticleIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of articles. Iteration stops on the
// first error from fn; context cancellation is checked between batches.
func (it *ArticleIterator) ForEach(ctx context.Context, fn func([]*core.Article) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := it.repo.AllArticles(ctx)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		return nil
	}

	for i := 0; i < len(articles); i += it.batchSize {
		end := i + it.batchSize
		if end > len(articles) {
			end = len(articles)
		}

		if err := fn(articles[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
