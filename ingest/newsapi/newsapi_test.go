package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "data": [
    {
      "url": "https://news.example.com/markets-rally",
      "title": "Markets rally on rate cut hopes",
      "description": "Stocks climbed across the board.",
      "snippet": "Investors bet on a September cut after soft inflation data.",
      "source": "example.com",
      "published_at": "2026-08-26T12:00:00.000000Z"
    },
    {
      "url": "https://news.example.com/no-source",
      "title": "Untitled wire story",
      "description": "Short description only.",
      "snippet": "",
      "source": "",
      "published_at": "not-a-date"
    }
  ]
}`

func TestFetchPage(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	src := New("test-token", WithBaseURL(server.URL))
	articles, err := src.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, []string{"test-token"}, gotQuery["api_token"])
	assert.Equal(t, []string{"en"}, gotQuery["language"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"50"}, gotQuery["limit"])

	first := articles[0]
	assert.Equal(t, "TheNewsAPI", first.Source)
	assert.Equal(t, "Markets rally on rate cut hopes", first.Headline)
	assert.Equal(t, "Stocks climbed across the board.\nInvestors bet on a September cut after soft inflation data.", first.Body)
	assert.Equal(t, "example.com", first.Author)

	second := articles[1]
	assert.Equal(t, "Short description only.", second.Body)
	assert.Equal(t, "N/A", second.Author)
	assert.Nil(t, second.PublishedAt)
}

func TestNew_DefaultEndpointIsAllNews(t *testing.T) {
	// The full firehose, not the curated top-stories subset.
	src := New("test-token")
	assert.Equal(t, "https://api.thenewsapi.com/v1/news/all", src.baseURL)
}

func TestFetchPage_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	src := New("test-token", WithBaseURL(server.URL))
	_, err := src.FetchPage(context.Background(), 1)
	assert.ErrorContains(t, err, "403")
}
