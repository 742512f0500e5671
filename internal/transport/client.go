// Package transport provides the shared HTTP plumbing used by provider
// adapters: a timeout-bounded client, optional API-key authentication,
// request throttling, and uniform response decoding.
package transport

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardbinder/cardbinder/pkg/errors"
)

// DefaultHTTPTimeout bounds every upstream request. A hung request is not
// distinguished from a slow one beyond this transport-level cutoff.
const DefaultHTTPTimeout = 30 * time.Second

// defaultRequestsPerSecond throttles calls to an upstream provider. The
// multilingual provider's per-ID fan-out can otherwise burst hard enough to
// trip upstream limits.
const defaultRequestsPerSecond = 20

// Client provides HTTP client functionality with optional API-key
// authentication and request throttling.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	apiKey    string
	apiHeader string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets an API key sent on every request under the given header.
func WithAPIKey(header, key string) Option {
	return func(c *Client) {
		c.apiHeader = header
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit overrides the default requests-per-second throttle.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)) }
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a throttled, authenticated GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI("", 0, err)
	}
	return c.Do(req)
}

// Do performs an HTTP request with throttling and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	if c.apiKey != "" && c.apiHeader != "" {
		req.Header.Set(c.apiHeader, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	return c.http.Do(req)
}
