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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/newsweave/newsweave"
	"github.com/newsweave/newsweave/ai"
	"github.com/newsweave/newsweave/cluster"
	"github.com/newsweave/newsweave/embed"
	"github.com/newsweave/newsweave/ingest"
	"github.com/newsweave/newsweave/ingest/guardian"
	"github.com/newsweave/newsweave/ingest/newsapi"
	"github.com/newsweave/newsweave/journal"
	"github.com/newsweave/newsweave/reembed"
)

func main() {
	app := &cli.App{
		Name:  "newsweave",
		Usage: "News event clustering pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Poll news providers and enqueue unseen articles",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:    "guardian-api-key",
						Usage:   "Guardian Open Platform API key",
						EnvVars: []string{"GUARDIAN_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "newsapi-token",
						Usage:   "TheNewsAPI API token",
						EnvVars: []string{"THENEWSAPI_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "Maximum pages fetched per provider per cycle",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Delay between ingestion cycles",
						Value: 15 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single cycle and exit",
					},
				),
			},
			{
				Name:   "embed",
				Usage:  "Drain the queue, embed articles, and persist them",
				Action: embedCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.StringFlag{
						Name:    "journal-path",
						Usage:   "Directory for the pop journal",
						Value:   "./newsweave-journal",
						EnvVars: []string{"JOURNAL_PATH"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding workers",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Drain the queue once and exit",
					},
				),
			},
			{
				Name:   "synthesize",
				Usage:  "Cluster embedded articles and summarize each event",
				Action: synthesizeCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.Float64Flag{
						Name:  "eps",
						Usage: "DBSCAN cosine-distance radius",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "min-cluster-size",
						Usage: "Smallest article group treated as an event",
						Value: 2,
					},
					&cli.DurationFlag{
						Name:  "run-interval",
						Usage: "Delay between clustering cycles",
						Value: 30 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single cycle and exit",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every stored article",
				Action: reembedCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N articles",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis connection URL",
			Value:   "redis://localhost:6379",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "mongo-uri",
			Usage:   "MongoDB connection URI",
			Value:   "mongodb://localhost:27017",
			EnvVars: []string{"MONGO_URI"},
		},
		&cli.StringFlag{
			Name:    "mongo-db",
			Usage:   "MongoDB database name",
			Value:   "news_app",
			EnvVars: []string{"MONGO_DB_NAME"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "all-minilm",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "oracle-host",
			Usage:   "Summarization service host URL",
			EnvVars: []string{"ORACLE_HOST"},
		},
		&cli.StringFlag{
			Name:    "oracle-model",
			Usage:   "Summarization model name",
			EnvVars: []string{"ORACLE_MODEL"},
		},
		&cli.StringFlag{
			Name:    "oracle-api-key",
			Usage:   "API key for the summarization service",
			EnvVars: []string{"ORACLE_API_KEY"},
		},
	}
}

// buildConfig assembles the shared config from whichever flags the
// current command carries. Commands without AI flags (ingest) must keep
// the AI defaults, so empty lookups never override them.
func buildConfig(c *cli.Context) *newsweave.Config {
	var aiOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(model))
	}
	if host := c.String("oracle-host"); host != "" {
		aiOpts = append(aiOpts, ai.WithOracleHost(host))
	}
	if model := c.String("oracle-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithOracleModel(model))
	}
	if key := c.String("oracle-api-key"); key != "" {
		aiOpts = append(aiOpts, ai.WithOracleAPIKey(key))
	}

	return &newsweave.Config{
		RedisURL:    c.String("redis-url"),
		MongoURI:    c.String("mongo-uri"),
		MongoDBName: c.String("mongo-db"),
		AI:          ai.NewConfig(aiOpts...),
	}
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func ingestCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := newsweave.NewApp(ctx, buildConfig(c))
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	var sources []ingest.Source
	if key := c.String("guardian-api-key"); key != "" {
		sources = append(sources, guardian.New(key))
	}
	if token := c.String("newsapi-token"); token != "" {
		sources = append(sources, newsapi.New(token))
	}
	if len(sources) == 0 {
		return fmt.Errorf("no providers configured: set guardian-api-key or newsapi-token")
	}

	gateway := ingest.NewGateway(sources, app.Redis(), app.Redis(),
		ingest.WithMaxPages(c.Int("max-pages")),
		ingest.WithPollInterval(c.Duration("poll-interval")),
	)

	if c.Bool("once") {
		count, err := gateway.RunCycle(ctx)
		if err != nil {
			return err
		}
		slog.Info("ingestion cycle complete", "enqueued", count)
		return nil
	}
	if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := newsweave.NewApp(ctx, buildConfig(c))
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	wal, err := journal.Open(c.String("journal-path"), false)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer wal.Close()

	worker := embed.NewWorker(app.Redis(), wal, app.Provider().Embedder(), app.Articles(),
		embed.WithWorkers(c.Int("workers")),
	)

	if c.Bool("once") {
		if _, err := worker.ReplayJournal(ctx); err != nil {
			return err
		}
		for {
			processed, err := worker.DrainOnce(ctx)
			if err != nil {
				return err
			}
			if !processed {
				return nil
			}
		}
	}
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func synthesizeCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := newsweave.NewApp(ctx, buildConfig(c))
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	engine := cluster.NewEngine(app.Articles(), app.Summaries(), app.Provider().Summarizer(), app.Redis(),
		cluster.WithEps(c.Float64("eps")),
		cluster.WithMinClusterSize(c.Int("min-cluster-size")),
		cluster.WithRunInterval(c.Duration("run-interval")),
	)

	if c.Bool("once") {
		count, err := engine.RunCycle(ctx)
		if err != nil {
			return err
		}
		slog.Info("clustering cycle complete", "summaries", count)
		return nil
	}
	if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := newsweave.NewApp(ctx, buildConfig(c))
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(app.Articles(), app.Provider().Embedder(), reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
