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


// Package guardian adapts the Guardian Open Platform content API to the
// ingest.Source interface.
package guardian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/ingest"
)

const (
	sourceName     = "The Guardian"
	defaultBaseURL = "https://content.guardianapis.com/search"
	pageSize       = 50
	requestTimeout = 30 * time.Second
)

// Source fetches articles from the Guardian content API.
type Source struct {
	apiKey  string
	baseURL string
	client  *http.Client
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

// New creates a Guardian source with the given API key.
func New(apiKey string, opts ...Option) *Source {
	s := &Source{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider name stored on ingested articles.
func (s *Source) Name() string { return sourceName }

type searchResponse struct {
	Response struct {
		Results []struct {
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				Headline string `json:"headline"`
				BodyText string `json:"bodyText"`
				Byline   string `json:"byline"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

// FetchPage retrieves one page of the newest articles.
func (s *Source) FetchPage(ctx context.Context, page int) ([]*core.Article, error) {
	query := url.Values{}
	query.Set("api-key", s.apiKey)
	query.Set("order-by", "newest")
	query.Set("show-fields", "headline,bodyText,byline")
	query.Set("page-size", strconv.Itoa(pageSize))
	query.Set("page", strconv.Itoa(page))

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
		return nil, fmt.Errorf("guardian api returned status %d", resp.StatusCode)
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode guardian response: %w", err)
	}

	articles := make([]*core.Article, 0, len(envelope.Response.Results))
	for _, result := range envelope.Response.Results {
		if result.WebURL == "" {
			continue
		}

		article := &core.Article{
			Source:   sourceName,
			URL:      result.WebURL,
			Headline: result.Fields.Headline,
			Body:     result.Fields.BodyText,
			Author:   result.Fields.Byline,
		}
		if article.Author == "" {
			article.Author = "N/A"
		}
		if ts, err := time.Parse(time.RFC3339, result.WebPublicationDate); err == nil {
			article.PublishedAt = &ts
		}
		articles = append(articles, article)
	}
	return articles, nil
}
