package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the DuckDuckGo instant-answer endpoint.
const DefaultBaseURL = "https://api.duckduckgo.com"

const (
	defaultResults = 3
	maxResults     = 5
)

// ErrMalformedResponse is returned when the search backend answers with
// something other than the expected JSON document.
var ErrMalformedResponse = errors.New("malformed search response")

// Result is one web search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
	Source  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another instant-answer compatible host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the request timeout. Default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client queries the DuckDuckGo instant-answer API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a search client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

type instantAnswer struct {
	Heading        string `json:"Heading"`
	Abstract       string `json:"Abstract"`
	AbstractURL    string `json:"AbstractURL"`
	AbstractSource string `json:"AbstractSource"`
	RelatedTopics  []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// ClampResults bounds a requested result count to 1..5. Zero selects the
// default of 3.
func ClampResults(n int) int {
	switch {
	case n == 0:
		return defaultResults
	case n < 1:
		return 1
	case n > maxResults:
		return maxResults
	}
	return n
}

// Search returns up to n results for query. When the backend has nothing to
// say a single pointer to the full search page is returned.
func (c *Client) Search(ctx context.Context, query string, n int) ([]Result, error) {
	n = ClampResults(n)

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search backend returned %s", resp.Status)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var results []Result
	if answer.Abstract != "" {
		results = append(results, Result{
			Title:   orDefault(answer.Heading, "DuckDuckGo Instant Answer"),
			Snippet: answer.Abstract,
			URL:     orDefault(answer.AbstractURL, "https://duckduckgo.com"),
			Source:  orDefault(answer.AbstractSource, "DuckDuckGo"),
		})
	}
	for _, topic := range answer.RelatedTopics {
		if len(results) >= n {
			break
		}
		if topic.Text == "" {
			continue
		}
		title := "Related Topic"
		if head, _, found := strings.Cut(topic.Text, " - "); found {
			title = head
		}
		results = append(results, Result{
			Title:   title,
			Snippet: topic.Text,
			URL:     orDefault(topic.FirstURL, "https://duckduckgo.com"),
			Source:  "DuckDuckGo",
		})
	}

	if len(results) == 0 {
		results = append(results, Result{
			Title:   "Search Results for: " + query,
			Snippet: fmt.Sprintf("Search performed for \"%s\". For detailed results, please visit a search engine directly.", query),
			URL:     "https://duckduckgo.com/?q=" + url.QueryEscape(query),
			Source:  "DuckDuckGo",
		})
	}
	return results, nil
}

// Report answers a web search tool call. Common length unit conversion
// questions are answered from the built-in table; everything else goes to the
// backend. Failures are reported in the returned text.
func (c *Client) Report(ctx context.Context, query string, n int) string {
	if answer, ok := quickAnswer(query); ok {
		return answer
	}

	results, err := c.Search(ctx, query, n)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return "Search error: " + err.Error()
		}
		return "Search temporarily unavailable due to network error: " + err.Error()
	}

	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("**%d. %s**\n%s\n🔗 Source: [%s](%s)\n", i+1, r.Title, r.Snippet, r.Source, r.URL)
	}
	return strings.Join(parts, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
