package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/newsweave/core"
)

func TestQueueItemRoundTrip(t *testing.T) {
	published := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	article := &core.Article{
		Source:      "The Guardian",
		URL:         "https://example.com/news/flood",
		Headline:    "Floods displace thousands",
		Body:        "Heavy rain over the weekend caused rivers to burst their banks.",
		Author:      "A. Reporter",
		PublishedAt: &published,
	}

	payload, err := MarshalQueueItem(article)
	require.NoError(t, err)

	decoded, err := UnmarshalQueueItem(payload)
	require.NoError(t, err)
	assert.Equal(t, article.Source, decoded.Source)
	assert.Equal(t, article.URL, decoded.URL)
	assert.Equal(t, article.Headline, decoded.Headline)
	assert.Equal(t, article.Body, decoded.Body)
	require.NotNil(t, decoded.PublishedAt)
	assert.True(t, published.Equal(*decoded.PublishedAt))
}

func TestMarshalQueueItem_WireFormatExcludesPipelineFields(t *testing.T) {
	article := &core.Article{
		Source:    "Test",
		URL:       "https://example.com/a",
		Embedding: []float32{0.1, 0.2},
		ClusterID: "should-not-travel",
	}

	payload, err := MarshalQueueItem(article)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "embedding")
	assert.NotContains(t, string(payload), "should-not-travel")
}

func TestMarshalQueueItem_Invalid(t *testing.T) {
	_, err := MarshalQueueItem(&core.Article{Source: "Test"})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshalQueueItem_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "::::"},
		{name: "missing url", payload: `{"source":"Test","headline":"h"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalQueueItem([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshalQueueItem_NullPublishedAt(t *testing.T) {
	payload := `{"source":"Test","url":"https://example.com/a","headline":"h","body":"b","author":"N/A","published_at":null}`

	decoded, err := UnmarshalQueueItem([]byte(payload))
	require.NoError(t, err)
	assert.Nil(t, decoded.PublishedAt)
}
