// ABOUTME: Standard HTTP client implementation with timeout and per-request header support
// ABOUTME: Single attempt per call; upstream failures are reported to the caller, never retried

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"modelsearch-api/core/interfaces"
)

const (
	// DefaultUserAgent identifies the service to JSON APIs
	DefaultUserAgent = "ModelSearchAPI/1.0"

	// MaxResponseSize bounds how much of an upstream body is read (10MB)
	MaxResponseSize = 10 * 1024 * 1024
)

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithTransport replaces the underlying round tripper, e.g. with a logging transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *StandardHTTPClient) {
		if rt != nil {
			c.client.Transport = rt
		}
	}
}

// WithUserAgent overrides the default User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *StandardHTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string, opts ...interfaces.RequestOption) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, opts)
}

// Post performs an HTTP POST request with a JSON body
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader, opts ...interfaces.RequestOption) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, opts)
}

func (c *StandardHTTPClient) do(req *http.Request, opts []interfaces.RequestOption) (interfaces.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req.Header)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       &limitedBody{Reader: io.LimitReader(resp.Body, MaxResponseSize), closer: resp.Body},
		headers:    resp.Header,
	}, nil
}

// limitedBody caps reads while still closing the real connection body
type limitedBody struct {
	io.Reader
	closer io.Closer
}

func (b *limitedBody) Close() error {
	return b.closer.Close()
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
