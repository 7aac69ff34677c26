package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, body string, status int) (*Client, *int) {
	t.Helper()
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("no_html"))
		assert.Equal(t, "1", r.URL.Query().Get("skip_disambig"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL)), hits
}

func TestClampResults(t *testing.T) {
	assert.Equal(t, 3, ClampResults(0))
	assert.Equal(t, 1, ClampResults(-2))
	assert.Equal(t, 4, ClampResults(4))
	assert.Equal(t, 5, ClampResults(50))
}

func TestClient_Search(t *testing.T) {
	body := `{
		"Heading": "Metre",
		"Abstract": "The metre is the SI unit of length.",
		"AbstractURL": "https://en.wikipedia.org/wiki/Metre",
		"AbstractSource": "Wikipedia",
		"RelatedTopics": [
			{"Text": "Kilometre - A unit of length", "FirstURL": "https://duckduckgo.com/Kilometre"},
			{"Name": "Group", "Topics": []},
			{"Text": "Plain topic text", "FirstURL": ""},
			{"Text": "Ignored - past the limit", "FirstURL": "https://duckduckgo.com/x"}
		]
	}`

	c, _ := newTestClient(t, body, http.StatusOK)
	results, err := c.Search(context.Background(), "metre", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Result{"Metre", "The metre is the SI unit of length.", "https://en.wikipedia.org/wiki/Metre", "Wikipedia"}, results[0])
	assert.Equal(t, "Kilometre", results[1].Title)
	assert.Equal(t, "Related Topic", results[2].Title)
	assert.Equal(t, "https://duckduckgo.com", results[2].URL)
}

func TestClient_SearchFallbackResult(t *testing.T) {
	c, _ := newTestClient(t, `{"Abstract":"","RelatedTopics":[]}`, http.StatusOK)
	results, err := c.Search(context.Background(), "obscure thing", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Search Results for: obscure thing", results[0].Title)
	assert.Equal(t, "https://duckduckgo.com/?q=obscure+thing", results[0].URL)
}

func TestClient_Report(t *testing.T) {
	t.Run("formats numbered results", func(t *testing.T) {
		c, _ := newTestClient(t, `{"Heading":"H","Abstract":"A","AbstractURL":"https://a","AbstractSource":"S"}`, http.StatusOK)
		out := c.Report(context.Background(), "anything", 3)
		assert.Equal(t, "**1. H**\nA\n🔗 Source: [S](https://a)\n", out)
	})

	t.Run("quick answer skips network", func(t *testing.T) {
		c, hits := newTestClient(t, `{}`, http.StatusOK)
		out := c.Report(context.Background(), "unit conversion inch to centimeter", 3)
		assert.True(t, strings.HasPrefix(out, "**1. Unit Conversion: Inch To Centimeter**"))
		assert.Zero(t, *hits)
	})

	t.Run("http failure", func(t *testing.T) {
		c, _ := newTestClient(t, `oops`, http.StatusBadGateway)
		out := c.Report(context.Background(), "anything", 3)
		assert.True(t, strings.HasPrefix(out, "Search temporarily unavailable due to network error: "))
	})

	t.Run("malformed body", func(t *testing.T) {
		c, _ := newTestClient(t, `not json`, http.StatusOK)
		out := c.Report(context.Background(), "anything", 3)
		assert.True(t, strings.HasPrefix(out, "Search error: "))
	})
}
