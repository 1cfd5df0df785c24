// Development seeder. Pushes canned articles through the dedup gate into
// the raw queue so the embed and synthesize stages have something to chew
// on without hitting real news providers.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
	redisstore "github.com/newsweave/newsweave/store/redis"
)

var canned = []seedArticle{
	{Headline: "Storm Callum floods coastal towns", Body: "Heavy rain and high tides flooded several coastal towns overnight. Emergency services evacuated hundreds of residents as rivers burst their banks."},
	{Headline: "Coastal flooding forces mass evacuations", Body: "Authorities ordered evacuations along the coast after Storm Callum pushed water levels to record highs. Shelters opened in three counties."},
	{Headline: "Storm damage bill expected to reach millions", Body: "Insurers warned that flood damage from the weekend storm could run into the tens of millions. Claims teams were dispatched to the worst-hit areas."},
	{Headline: "Central bank holds interest rates steady", Body: "The central bank left its benchmark rate unchanged on Thursday, citing mixed inflation signals. Markets had priced in a small chance of a cut."},
	{Headline: "Rate decision leaves borrowers waiting", Body: "Homeowners hoping for relief will wait at least another quarter after the central bank held rates. Economists remain split on the timing of the first cut."},
	{Headline: "Midfielder signs record transfer deal", Body: "The club confirmed the signing of the international midfielder for a league record fee. The player agreed a five year contract."},
	{Headline: "New exoplanet found in habitable zone", Body: "Astronomers announced the discovery of a rocky exoplanet orbiting within its star's habitable zone, raising hopes for liquid water."},
	{Headline: "Dockworkers end week-long strike", Body: "Port operations resumed after union members voted to accept a revised pay offer, ending a strike that had stranded cargo for a week."},
}

type seedArticle struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

var (
	seedFileName = flag.String("src", "", "file of seed articles, one JSON object per line")
	redisURL     = flag.String("redis-url", envOr("REDIS_URL", "redis://localhost:6379"), "Redis connection URL")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// articlesFromFile returns an iterator over JSON-encoded articles in a file.
func articlesFromFile(filename string) (iter.Seq[seedArticle], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(seedArticle) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var article seedArticle
			if err := json.Unmarshal(scanner.Bytes(), &article); err != nil {
				slog.Warn("skipping malformed seed line", "error", err)
				continue
			}
			if !yield(article) {
				return
			}
		}
	}, nil
}

// articlesFromSlice returns an iterator over a slice of seed articles.
func articlesFromSlice(articles []seedArticle) iter.Seq[seedArticle] {
	return func(yield func(seedArticle) bool) {
		for _, article := range articles {
			if !yield(article) {
				return
			}
		}
	}
}

// seed pushes each article through the seen-set gate into the queue.
func seed(ctx context.Context, rs *redisstore.Store, source iter.Seq[seedArticle]) (int, error) {
	now := time.Now().UTC()
	enqueued := 0
	n := 0

	for item := range source {
		n++
		article := &core.Article{
			Source:      "Seeder",
			URL:         fmt.Sprintf("https://seed.invalid/%d-%016x", now.Unix(), uint64(core.FingerprintOf(item.Headline))),
			Headline:    item.Headline,
			Body:        item.Body,
			Author:      "N/A",
			PublishedAt: &now,
		}

		added, err := rs.Add(ctx, article.URL)
		if err != nil {
			return enqueued, err
		}
		if !added {
			continue
		}

		payload, err := store.MarshalQueueItem(article)
		if err != nil {
			return enqueued, err
		}
		if err := rs.Push(ctx, payload); err != nil {
			return enqueued, err
		}
		enqueued++
	}

	slog.Info("seeding complete", "read", n, "enqueued", enqueued)
	return enqueued, nil
}

func main() {
	ctx := context.Background()

	rs, err := redisstore.New(*redisURL)
	if err != nil {
		slog.Error("failed to open redis", "error", err)
		os.Exit(1)
	}
	defer rs.Close()

	if err := rs.Ping(ctx); err != nil {
		slog.Error("redis unreachable", "error", err)
		os.Exit(1)
	}

	source := articlesFromSlice(canned)
	if *seedFileName != "" {
		source, err = articlesFromFile(*seedFileName)
		if err != nil {
			slog.Error("failed to open seed file", "error", err)
			os.Exit(1)
		}
	}

	if _, err := seed(ctx, rs, source); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
