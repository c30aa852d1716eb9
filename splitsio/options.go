package splitsio

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout    time.Duration
	pageSize   int
	userAgent  string
	httpClient *http.Client
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		timeout:   30 * time.Second,
		userAgent: "splitstats",
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithPageSize requests a specific per-page item count on paginated
// endpoints. Zero leaves the page size to the server.
func WithPageSize(size int) Option {
	return func(o *clientOptions) {
		if size >= 0 {
			o.pageSize = size
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}
