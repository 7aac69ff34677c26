// Package currency converts money amounts using a live exchange-rate provider.
//
// Client talks to the FreeCurrencyAPI HTTP interface. Converter turns the
// provider's answers (and failures) into the Markdown reports returned by the
// currency tools; it never returns an error to its caller.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the FreeCurrencyAPI endpoint.
const DefaultBaseURL = "https://api.freecurrencyapi.com"

// DefaultTimeout bounds each provider request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrRateNotFound is returned when the provider answers without the requested quote.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrNoListing is returned when the provider's currency listing has no data member.
	ErrNoListing = errors.New("currency listing unavailable")
)

// APIError is an error reported by the exchange-rate provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Currency describes one supported currency.
type Currency struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	NamePlural   string `json:"name_plural"`
	DecimalDigit int    `json:"decimal_digits"`
}

// RateProvider is the exchange-rate backend used by Converter.
type RateProvider interface {
	// LatestRate returns how many units of quote one unit of base buys.
	LatestRate(ctx context.Context, base, quote string) (float64, error)
	// ListCurrencies returns the supported currencies keyed by code.
	ListCurrencies(ctx context.Context) (map[string]Currency, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another FreeCurrencyAPI-compatible host.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. Default is 10 seconds.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is a FreeCurrencyAPI client.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

type latestResponse struct {
	Data  map[string]float64 `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// LatestRate implements RateProvider.
func (c *Client) LatestRate(ctx context.Context, base, quote string) (float64, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("base_currency", base)
	q.Set("currencies", quote)

	var resp latestResponse
	if err := c.get(ctx, "/v1/latest", q, &resp); err != nil {
		return 0, err
	}
	if resp.Error != nil {
		msg := resp.Error.Message
		if msg == "" {
			msg = "Unknown API error"
		}
		return 0, &APIError{Message: msg}
	}
	rate, ok := resp.Data[quote]
	if !ok {
		return 0, fmt.Errorf("%w for %s to %s", ErrRateNotFound, base, quote)
	}
	return rate, nil
}

type currenciesResponse struct {
	Data map[string]Currency `json:"data"`
}

// ListCurrencies implements RateProvider.
func (c *Client) ListCurrencies(ctx context.Context) (map[string]Currency, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)

	var resp currenciesResponse
	if err := c.get(ctx, "/v1/currencies", q, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoListing
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

var _ RateProvider = (*Client)(nil)
