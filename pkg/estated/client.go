// Package estated provides a client for the Estated property data API.
package estated

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Estated property lookup operations.
type Client interface {
	// Property fetches the property record for a combined address string.
	Property(ctx context.Context, combinedAddress string) (*PropertyRecord, error)
}

// PropertyRecord is the parsed Estated property response.
type PropertyRecord struct {
	Valuation Valuation `json:"valuation"`
}

// Valuation holds the estimated market value. MarketValue takes precedence
// over Value when both are present.
type Valuation struct {
	MarketValue float64 `json:"market_value"`
	Value       float64 `json:"value"`
}

// Best returns the preferred valuation figure, or 0 when none is set.
func (v Valuation) Best() float64 {
	if v.MarketValue > 0 {
		return v.MarketValue
	}
	return v.Value
}

// Option configures the Estated client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Estated client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: "https://apis.estated.com",
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Property(ctx context.Context, combinedAddress string) (*PropertyRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "estated: rate limit wait")
	}

	q := url.Values{}
	q.Set("token", c.token)
	q.Set("combined_address", combinedAddress)
	reqURL := c.baseURL + "/v4/property?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "estated: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "estated: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "estated: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("estated: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var record PropertyRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, eris.Wrap(err, "estated: unmarshal response")
	}
	return &record, nil
}
