// Package attom provides a client for the ATTOM Data property API.
package attom

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

// Client defines the ATTOM property lookup operations.
type Client interface {
	// BasicProfile fetches the basic property profile for an address.
	BasicProfile(ctx context.Context, address string) (*BasicProfileResponse, error)
}

// BasicProfileResponse is the parsed ATTOM basic profile response.
type BasicProfileResponse struct {
	Properties []Property `json:"property"`
}

// Property is one property record from ATTOM.
type Property struct {
	Sale       Sale       `json:"sale"`
	Assessment Assessment `json:"assessment"`
}

// Sale holds the last recorded sale figure.
type Sale struct {
	Amount float64 `json:"amount"`
}

// Assessment holds the assessed market valuation.
type Assessment struct {
	Market Market `json:"market"`
}

// Market is the assessed market value block.
type Market struct {
	TotalValue float64 `json:"mktTtlValue"`
}

// BestValue returns the preferred price figure from the first property
// record: last sale amount if present, otherwise the assessed total market
// value. Returns 0 when the response holds no usable figure.
func (r *BasicProfileResponse) BestValue() float64 {
	if len(r.Properties) == 0 {
		return 0
	}
	p := r.Properties[0]
	if p.Sale.Amount > 0 {
		return p.Sale.Amount
	}
	return p.Assessment.Market.TotalValue
}

// Option configures the ATTOM client.
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
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new ATTOM client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.gateway.attomdata.com",
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) BasicProfile(ctx context.Context, address string) (*BasicProfileResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "attom: rate limit wait")
	}

	q := url.Values{}
	q.Set("address", address)
	reqURL := c.baseURL + "/propertyapi/v1.0.0/property/basicprofile?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "attom: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "attom: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "attom: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("attom: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out BasicProfileResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "attom: unmarshal response")
	}
	return &out, nil
}
