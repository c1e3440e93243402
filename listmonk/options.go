package listmonk

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	pageSize   int
}

func defaultOptions() clientOptions {
	return clientOptions{
		userAgent: defaultUserAgent(),
		pageSize:  DefaultPageSize,
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets a timeout applied to every request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
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

// WithPageSize sets the page size used when aggregating subscribers.
func WithPageSize(size int) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.pageSize = size
		}
	}
}
