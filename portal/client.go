// Package portal talks to the lecture-video portal: it validates course
// registration URLs, authenticates sessions, and fetches series and
// episode metadata. Requests are blocking and sequential, rate limited to
// stay polite, and retried on transient failures only.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lectsync/retry"
)

// ClientConfig holds portal HTTP client configuration.
type ClientConfig struct {
	// Timeout for individual HTTP requests.
	Timeout time.Duration

	// RequestsPerSecond bounds the request rate against the portal.
	RequestsPerSecond float64

	// UserAgent for HTTP requests.
	UserAgent string

	// Retry configuration for transient failures.
	Retry retry.Config
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64; rv:101.0) Gecko/20100101 Firefox/101.0",
		Retry:             retry.DefaultConfig(),
	}
}

// Client wraps an HTTP client with the session cookie jar, rate limiting
// and retry logic. The cookie jar is the session credential: a successful
// login stores the portal's cookies here and subsequent metadata fetches
// send them automatically.
type Client struct {
	base    *http.Client
	jar     http.CookieJar
	limiter *rate.Limiter
	config  *ClientConfig

	mu      sync.RWMutex
	referer string
}

// NewClient creates a portal client. A nil config uses defaults.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		base: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		jar:     jar,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		config:  cfg,
	}, nil
}

// SetReferer sets the Referer header sent with every request, normally
// the course's HTML page as a browser would send it.
func (c *Client) SetReferer(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.referer = url
}

// Cookies returns the session cookies currently held for u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	return c.jar.Cookies(u)
}

// Get performs a rate-limited GET and returns the response body.
func (c *Client) Get(ctx context.Context, urlStr string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, urlStr, "", nil)
}

// PostForm submits an URL-encoded form and returns the response body.
// Form submissions are not retried: a login attempt must run exactly once
// per credential set.
func (c *Client) PostForm(ctx context.Context, urlStr string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, http.MethodPost, urlStr,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// do performs a request with rate limiting and retry on transient errors.
func (c *Client) do(ctx context.Context, method, urlStr, contentType string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var respBody []byte
	err := retry.Do(ctx, c.config.Retry, isRetryableHTTPError, func(ctx context.Context) error {
		b, err := c.roundTrip(ctx, method, urlStr, contentType, body)
		if err != nil {
			return err
		}
		respBody = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// roundTrip performs a single request and reads the full response body.
func (c *Client) roundTrip(ctx context.Context, method, urlStr, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.mu.RLock()
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	c.mu.RUnlock()

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// isRetryableHTTPError treats 4xx responses and context errors as
// permanent; network errors and 5xx responses are retried.
func isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode >= 500
	}
	return true
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}
