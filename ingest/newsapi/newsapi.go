// Package newsapi adapts TheNewsAPI all-news endpoint to the
// ingest.Source interface.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/ingest"
)

const (
	sourceName     = "TheNewsAPI"
	defaultBaseURL = "https://api.thenewsapi.com/v1/news/all"
	pageSize       = 50
	requestTimeout = 30 * time.Second
)

// Source fetches articles from TheNewsAPI.
type Source struct {
	apiToken string
	baseURL  string
	client   *http.Client
}

var _ ingest.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithBaseURL overrides the API endpoint (tests).
func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) { s.client = client }
}

// New creates a TheNewsAPI source with the given API token.
func New(apiToken string, opts ...Option) *Source {
	s := &Source{
		apiToken: apiToken,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider name stored on ingested articles.
func (s *Source) Name() string { return sourceName }

type newsResponse struct {
	Data []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Snippet     string `json:"snippet"`
		Source      string `json:"source"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}

// FetchPage retrieves one page of English-language articles. The API
// only exposes a description and a snippet, so those are joined to form
// the article body.
func (s *Source) FetchPage(ctx context.Context, page int) ([]*core.Article, error) {
	query := url.Values{}
	query.Set("api_token", s.apiToken)
	query.Set("language", "en")
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thenewsapi returned status %d", resp.StatusCode)
	}

	var envelope newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode thenewsapi response: %w", err)
	}

	articles := make([]*core.Article, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.URL == "" {
			continue
		}

		body := item.Description
		if item.Snippet != "" {
			body = strings.TrimSpace(body + "\n" + item.Snippet)
		}

		author := item.Source
		if author == "" {
			author = "N/A"
		}

		article := &core.Article{
			Source:   sourceName,
			URL:      item.URL,
			Headline: item.Title,
			Body:     body,
			Author:   author,
		}
		if ts, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			article.PublishedAt = &ts
		}
		articles = append(articles, article)
	}
	return articles, nil
}
