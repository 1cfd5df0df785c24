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


package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/newsweave/newsweave/store"
)

const (
	defaultSeenKey  = "seen_articles_urls"
	defaultQueueKey = "raw_articles_queue"
	defaultLockKey  = "clustering_cycle_lock"
)

// Store wraps a Redis client and provides the queue/set primitives the
// pipeline stages share: the seen-URL set, the raw article queue, and the
// clustering cycle lock.
type Store struct {
	client    *goredis.Client
	seenKey   string
	queueKey  string
	lockKey   string
	lockToken string
	logger    *slog.Logger
}

var (
	_ store.SeenSet   = (*Store)(nil)
	_ store.Queue     = (*Store)(nil)
	_ store.CycleLock = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithSeenKey overrides the seen-URL set key.
func WithSeenKey(key string) Option {
	return func(s *Store) {
		s.seenKey = key
	}
}

// WithQueueKey overrides the article queue key.
func WithQueueKey(key string) Option {
	return func(s *Store) {
		s.queueKey = key
	}
}

// WithLockKey overrides the cycle lock key.
func WithLockKey(key string) Option {
	return func(s *Store) {
		s.lockKey = key
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store from a Redis connection URL
// (e.g. "redis://localhost:6379/0").
func New(url string, opts ...Option) (*Store, error) {
	parsed, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return nil, err
	}

	s := &Store{
		client:    goredis.NewClient(parsed),
		seenKey:   defaultSeenKey,
		queueKey:  defaultQueueKey,
		lockKey:   defaultLockKey,
		lockToken: hex.EncodeToString(token),
		logger:    slog.Default().With("component", "redis-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ping verifies connectivity. Used as the startup connectivity check;
// a failure here is fatal to the calling process.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Add records a URL as seen and reports whether it was newly added.
// SADD's return value is the atomic add-if-absent decision.
func (s *Store) Add(ctx context.Context, url string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.seenKey, url).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

// Contains reports whether a URL has already been seen.
func (s *Store) Contains(ctx context.Context, url string) (bool, error) {
	return s.client.SIsMember(ctx, s.seenKey, url).Result()
}

// Push appends a payload to the queue.
func (s *Store) Push(ctx context.Context, payload []byte) error {
	return s.client.LPush(ctx, s.queueKey, payload).Err()
}

// Pop removes and returns the oldest payload without blocking.
// Returns store.ErrEmptyQueue when the queue is empty.
func (s *Store) Pop(ctx context.Context) ([]byte, error) {
	payload, err := s.client.RPop(ctx, s.queueKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrEmptyQueue
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Len returns the number of payloads currently queued.
func (s *Store) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.queueKey).Result()
}

// Acquire attempts to take the cycle lock via SET NX PX.
// Returns false without error when another holder is active.
func (s *Store) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.lockKey, s.lockToken, ttl).Result()
}

// releaseScript deletes the lock key only while this instance's token is
// still stored under it. Compare and delete must be one server-side step:
// with a separate GET and DEL, the lock can expire and be reacquired by
// another engine in between, and the DEL would drop the new holder's lock.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release deletes the cycle lock if this instance still holds it.
// A lock held by another instance (or already expired) is left alone.
func (s *Store) Release(ctx context.Context) error {
	released, err := releaseScript.Run(ctx, s.client, []string{s.lockKey}, s.lockToken).Int()
	if err != nil {
		return err
	}
	if released == 0 {
		s.logger.Warn("cycle lock expired or held by another instance, not releasing")
	}
	return nil
}
