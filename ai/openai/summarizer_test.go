package openai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryResponse(t *testing.T) {
	raw := `{"headline":"Storm hits coast","summary":"A storm made landfall on Tuesday. Several towns lost power. Crews are restoring service. No injuries were reported.","tags":["storm","weather","power outage"]}`

	summary, err := parseSummaryResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Storm hits coast", summary.Headline)
	assert.Len(t, summary.Tags, 3)
}

func TestParseSummaryResponse_Fenced(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "json fence",
			text: "```json\n{\"headline\":\"h\",\"summary\":\"s\",\"tags\":[\"a\"]}\n```",
		},
		{
			name: "bare fence",
			text: "```\n{\"headline\":\"h\",\"summary\":\"s\",\"tags\":[\"a\"]}\n```",
		},
		{
			name: "surrounding whitespace",
			text: "\n\n  {\"headline\":\"h\",\"summary\":\"s\",\"tags\":[\"a\"]}  \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := parseSummaryResponse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, "h", summary.Headline)
			assert.Equal(t, "s", summary.Summary)
			assert.Equal(t, []string{"a"}, summary.Tags)
		})
	}
}

func TestParseSummaryResponse_RepairedKey(t *testing.T) {
	// Missing opening quote before "tags" key
	raw := `{"headline":"h","summary":"s", tags":["a","b"]}`

	summary, err := parseSummaryResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, summary.Tags)
}

func TestParseSummaryResponse_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "prose", text: "I could not summarize these articles."},
		{name: "truncated", text: `{"headline":"h","summ`},
		{name: "missing fields", text: `{"tags":["a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSummaryResponse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseableResponse))
		})
	}
}

func TestRepairJSON_Untouched(t *testing.T) {
	valid := `{"headline": "h", "summary": "s", "tags": ["a"]}`
	assert.Equal(t, valid, repairJSON(valid))
}
