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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/newsweave/newsweave/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrUnparseableResponse is returned when the oracle response cannot be
// parsed into an event summary even after fence stripping and JSON repair.
var ErrUnparseableResponse = errors.New("unparseable oracle response")

// ErrEmptyResponse is returned when the oracle returns no choices.
var ErrEmptyResponse = errors.New("empty oracle response")

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.OracleHost),
		openai.WithToken(config.OracleAPIKey),
		openai.WithModel(config.OracleModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a new event summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// SummarizeEvent sends the combined article text to the oracle and parses
// the structured result. Parsing is tolerant: markdown code fences are
// stripped and common JSON faults repaired before unmarshaling. A response
// that still fails to parse yields ErrUnparseableResponse.
func (s *Summarizer) SummarizeEvent(ctx context.Context, combined string) (*ai.EventSummary, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(summarizationSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Here are the articles:\n---\n" + combined + "\n---"),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var summary *ai.EventSummary
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.2), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return nil, ErrEmptyResponse
		}

		summary, lastErr = parseSummaryResponse(response.Choices[0].Content)
		if lastErr == nil {
			break
		}
		s.logger.Warn("error parsing oracle response",
			"attempt", attempt+1,
			"response", response.Choices[0].Content,
			"err", lastErr)
	}

	if lastErr != nil {
		s.logger.Error("failed to parse oracle response after retries", "err", lastErr)
		return nil, lastErr
	}

	return summary, nil
}

// parseSummaryResponse strips formatting fences, repairs common JSON faults,
// and unmarshals the oracle's response into an EventSummary.
func parseSummaryResponse(text string) (*ai.EventSummary, error) {
	cleaned := stripFences(text)
	cleaned = repairJSON(cleaned)

	var summary ai.EventSummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseableResponse, err)
	}

	if summary.Headline == "" || summary.Summary == "" {
		return nil, fmt.Errorf("%w: missing headline or summary", ErrUnparseableResponse)
	}

	return &summary, nil
}

// stripFences removes markdown code fences wrapping the response, if present.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
