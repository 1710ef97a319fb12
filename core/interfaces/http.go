package interfaces

import (
	"context"
	"io"
	"net/http"
)

// RequestOption mutates the headers of an outgoing request before it is sent.
type RequestOption func(h http.Header)

// WithHeader sets a single header on the outgoing request, replacing any
// default value the client would otherwise send.
func WithHeader(key, value string) RequestOption {
	return func(h http.Header) {
		h.Set(key, value)
	}
}

// HTTPClient defines the interface for making HTTP requests.
// Source adapters depend on this abstraction so tests can replace the
// network with canned responses.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string, opts ...RequestOption) (Response, error)

	// Post performs an HTTP POST request with a JSON body.
	// The body is consumed by the client; the caller keeps ownership of nothing.
	Post(ctx context.Context, url string, body io.Reader, opts ...RequestOption) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	Header(key string) string
}
