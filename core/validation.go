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


package core

import "fmt"

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - URL must not be empty (it is the dedup key)
//   - Source must not be empty
//
// NOT validated (populated by later pipeline stages):
//   - Embedding (empty until the embedding worker runs)
//   - ProcessedAt, ID (set on persistence)
//   - ClusterID (set by the clustering engine, at most once)
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyURL)
	}

	if article.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptySource)
	}

	return nil
}

// ValidateSummary validates a Summary according to domain rules.
//
// Validation rules:
//   - Headline and summary text must not be empty
//   - ArticleCount must equal the number of related article IDs
func ValidateSummary(summary *Summary) error {
	if summary == nil {
		return fmt.Errorf("%w: summary is nil", ErrInvalidSummary)
	}

	if summary.Headline == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, ErrEmptyHeadline)
	}

	if summary.Summary == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, ErrEmptySummaryText)
	}

	if summary.ArticleCount != len(summary.RelatedArticleIDs) {
		return fmt.Errorf("%w: article count %d does not match %d related ids",
			ErrInvalidSummary, summary.ArticleCount, len(summary.RelatedArticleIDs))
	}

	return nil
}
