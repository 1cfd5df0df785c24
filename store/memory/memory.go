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


// Package memory provides in-process implementations of the store
// interfaces, for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

// Store implements every store interface in process memory.
type Store struct {
	mu         sync.Mutex
	seen       map[string]bool
	queue      [][]byte
	articles   map[string]*core.Article
	summaries  map[string]*core.Summary
	nextID     uint64
	lockHolder bool
	lockUntil  time.Time
}

var (
	_ store.SeenSet           = (*Store)(nil)
	_ store.Queue             = (*Store)(nil)
	_ store.ArticleRepository = (*Store)(nil)
	_ store.SummaryRepository = (*Store)(nil)
	_ store.CycleLock         = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		seen:      make(map[string]bool),
		articles:  make(map[string]*core.Article),
		summaries: make(map[string]*core.Summary),
	}
}

func (s *Store) generateID() string {
	s.nextID++
	return fmt.Sprintf("%024x", s.nextID)
}

// Add records a URL as seen and reports whether it was newly added.
func (s *Store) Add(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[url] {
		return false, nil
	}
	s.seen[url] = true
	return true, nil
}

// Contains reports whether a URL has already been seen.
func (s *Store) Contains(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[url], nil
}

// Push appends a payload to the queue.
func (s *Store) Push(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(payload))
	copy(buf, payload)
	s.queue = append(s.queue, buf)
	return nil
}

// Pop removes and returns the oldest payload, or store.ErrEmptyQueue.
func (s *Store) Pop(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil, store.ErrEmptyQueue
	}
	payload := s.queue[0]
	s.queue = s.queue[1:]
	return payload, nil
}

// Len returns the number of payloads currently queued.
func (s *Store) Len(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.queue)), nil
}

// InsertArticle persists an article copy and returns the generated id.
func (s *Store) InsertArticle(_ context.Context, article *core.Article) (string, error) {
	if err := core.ValidateArticle(article); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateID()
	stored := *article
	stored.ID = id
	s.articles[id] = &stored
	article.ID = id
	return id, nil
}

// GetArticle retrieves a single article by ID.
func (s *Store) GetArticle(_ context.Context, id string) (*core.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *article
	return &copied, nil
}

// UnclusteredArticles returns every article with no cluster assignment.
func (s *Store) UnclusteredArticles(_ context.Context) ([]*core.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*core.Article
	for _, article := range s.articles {
		if !article.Clustered() {
			copied := *article
			result = append(result, &copied)
		}
	}
	return result, nil
}

// AllArticles returns every stored article.
func (s *Store) AllArticles(_ context.Context) ([]*core.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*core.Article, 0, len(s.articles))
	for _, article := range s.articles {
		copied := *article
		result = append(result, &copied)
	}
	return result, nil
}

// MarkClustered assigns summaryID to each listed article whose cluster is
// still unset, and returns the number actually updated.
func (s *Store) MarkClustered(_ context.Context, summaryID string, articleIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, id := range articleIDs {
		article, ok := s.articles[id]
		if !ok || article.Clustered() {
			continue
		}
		article.ClusterID = summaryID
		updated++
	}
	return updated, nil
}

// UpdateEmbeddings replaces the embedding and processed timestamp of the
// given articles. Cluster assignments are untouched.
func (s *Store) UpdateEmbeddings(_ context.Context, articles ...*core.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, article := range articles {
		stored, ok := s.articles[article.ID]
		if !ok {
			return fmt.Errorf("%w: article %q", store.ErrNotFound, article.ID)
		}
		stored.Embedding = article.Embedding
		stored.ProcessedAt = article.ProcessedAt
	}
	return nil
}

// InsertSummary persists a summary copy and returns the generated id.
func (s *Store) InsertSummary(_ context.Context, summary *core.Summary) (string, error) {
	if err := core.ValidateSummary(summary); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateID()
	stored := *summary
	stored.ID = id
	s.summaries[id] = &stored
	summary.ID = id
	return id, nil
}

// GetSummary retrieves a single summary by ID.
func (s *Store) GetSummary(_ context.Context, id string) (*core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *summary
	return &copied, nil
}

// Acquire takes the cycle lock if free or expired.
func (s *Store) Acquire(_ context.Context, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.lockHolder && now.Before(s.lockUntil) {
		return false, nil
	}
	s.lockHolder = true
	s.lockUntil = now.Add(ttl)
	return true, nil
}

// Release frees the cycle lock.
func (s *Store) Release(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockHolder = false
	return nil
}
