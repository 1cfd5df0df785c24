package mock

import (
	"context"

	"github.com/newsweave/newsweave/ai"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via a function field.
type MockSummarizer struct {
	// SummarizeFunc is called by SummarizeEvent if set.
	// If nil, a canned summary is returned.
	SummarizeFunc func(ctx context.Context, combined string) (*ai.EventSummary, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockSummarizer().
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// SummarizeEvent returns the injected result or a canned summary.
func (m *MockSummarizer) SummarizeEvent(ctx context.Context, combined string) (*ai.EventSummary, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, combined)
	}

	return &ai.EventSummary{
		Headline: "Mock event headline",
		Summary:  "First sentence. Second sentence. Third sentence.",
		Tags:     []string{"mock", "event", "test"},
	}, nil
}

// CallCount returns the number of times SummarizeEvent was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
}
