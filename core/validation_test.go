package core

import (
	"errors"
	"testing"
)

func TestValidateArticle(t *testing.T) {
	tests := []struct {
		name    string
		article *Article
		wantErr error
	}{
		{
			name:    "valid article",
			article: &Article{Source: "The Guardian", URL: "https://example.com/a", Headline: "h"},
			wantErr: nil,
		},
		{
			name:    "nil article",
			article: nil,
			wantErr: ErrInvalidArticle,
		},
		{
			name:    "missing url",
			article: &Article{Source: "The Guardian", Headline: "h"},
			wantErr: ErrEmptyURL,
		},
		{
			name:    "missing source",
			article: &Article{URL: "https://example.com/a", Headline: "h"},
			wantErr: ErrEmptySource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticle(tt.article)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateArticle() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateArticle() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSummary(t *testing.T) {
	valid := &Summary{
		Headline:          "Storm hits coastal towns",
		Summary:           "A storm made landfall. Damage was reported. Recovery is underway.",
		Tags:              []string{"storm", "weather", "coast"},
		RelatedArticleIDs: []string{"a", "b"},
		ArticleCount:      2,
	}
	if err := ValidateSummary(valid); err != nil {
		t.Fatalf("ValidateSummary() unexpected error: %v", err)
	}

	t.Run("nil summary", func(t *testing.T) {
		if err := ValidateSummary(nil); !errors.Is(err, ErrInvalidSummary) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidSummary)
		}
	})

	t.Run("empty headline", func(t *testing.T) {
		s := *valid
		s.Headline = ""
		if err := ValidateSummary(&s); !errors.Is(err, ErrEmptyHeadline) {
			t.Fatalf("error = %v, want %v", err, ErrEmptyHeadline)
		}
	})

	t.Run("empty summary text", func(t *testing.T) {
		s := *valid
		s.Summary = ""
		if err := ValidateSummary(&s); !errors.Is(err, ErrEmptySummaryText) {
			t.Fatalf("error = %v, want %v", err, ErrEmptySummaryText)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		s := *valid
		s.ArticleCount = 3
		if err := ValidateSummary(&s); !errors.Is(err, ErrInvalidSummary) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidSummary)
		}
	})
}
