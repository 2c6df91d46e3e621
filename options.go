package duffel

import (
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Option func(*Client)

func WithAccessToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithVersion sets the Duffel-Version header.
func WithVersion(version string) Option {
	return func(c *Client) { c.version = version }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout applies to a copy of the HTTP client, so a client passed with
// WithHTTPClient is never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithRetry retries GET requests that failed to send or got a 429 or 5xx
// response, with exponential backoff starting at interval. Other methods
// are never retried.
func WithRetry(maxRetries int, interval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if interval > 0 {
			c.retryInterval = interval
		}
	}
}

// WithRateLimiter makes every request wait on limiter before it is sent.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}
