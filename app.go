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


// Package newsweave wires the shared infrastructure of the pipeline
// processes: the Redis coordination store, the Mongo document store, and
// the AI provider. Each process command builds an App and runs its stage
// against it.
package newsweave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/ai/openai"
	"github.com/newsweave/newsweave/store"
	mongostore "github.com/newsweave/newsweave/store/mongo"
	redisstore "github.com/newsweave/newsweave/store/redis"
)

// Config holds the connection settings shared by all pipeline processes.
type Config struct {
	RedisURL    string
	MongoURI    string
	MongoDBName string
	AI          *ai.Config
}

// App bundles the live connections of one pipeline process.
type App struct {
	redis     *redisstore.Store
	mongo     *mongostore.Backend
	articles  store.ArticleRepository
	summaries store.SummaryRepository
	provider  ai.AIProvider
	logger    *slog.Logger
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *appOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// NewApp connects to Redis and Mongo and constructs the AI provider.
// Both datastores are pinged; an unreachable one is a startup failure,
// not something to discover mid-cycle.
func NewApp(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
	}
	if cfg.AI != nil {
		options.aiConfig = cfg.AI
	}
	for _, opt := range opts {
		opt(options)
	}

	rs, err := redisstore.New(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: %w", err)
	}
	if err := rs.Ping(ctx); err != nil {
		rs.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	mongo, err := mongostore.OpenBackend(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		rs.Close()
		return nil, fmt.Errorf("open mongo: %w", err)
	}
	if err := mongo.Ping(ctx); err != nil {
		mongo.Close(ctx)
		rs.Close()
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	articles, err := mongostore.NewArticleRepository(mongo)
	if err != nil {
		mongo.Close(ctx)
		rs.Close()
		return nil, fmt.Errorf("create article repository: %w", err)
	}
	summaries, err := mongostore.NewSummaryRepository(mongo)
	if err != nil {
		mongo.Close(ctx)
		rs.Close()
		return nil, fmt.Errorf("create summary repository: %w", err)
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		mongo.Close(ctx)
		rs.Close()
		return nil, fmt.Errorf("create ai provider: %w", err)
	}

	return &App{
		redis:     rs,
		mongo:     mongo,
		articles:  articles,
		summaries: summaries,
		provider:  provider,
		logger:    slog.Default().With("component", "app"),
	}, nil
}

// Redis returns the coordination store (seen set, queue, cycle lock).
func (a *App) Redis() *redisstore.Store { return a.redis }

// Articles returns the article repository.
func (a *App) Articles() store.ArticleRepository { return a.articles }

// Summaries returns the summary repository.
func (a *App) Summaries() store.SummaryRepository { return a.summaries }

// Provider returns the AI provider.
func (a *App) Provider() ai.AIProvider { return a.provider }

// Close releases every connection. Safe to call once at shutdown.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if err := a.provider.Close(); err != nil {
		firstErr = err
	}
	if err := a.mongo.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.redis.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
