package ports

import (
	"context"
)

// HTTPClient is the transport used by the remote bridge.
// The default implementation is infrastructure/bridge.NewTransport; tests inject mocks.
type HTTPClient interface {
	// Do executes an HTTP request and returns the response. A non-2xx status is
	// not an error at this level.
	Do(ctx context.Context, req HTTPRequest) (*HTTPResponse, error)
}

// HTTPRequest represents an HTTP request.
type HTTPRequest struct {
	Headers map[string]string
	Method  string
	URL     string
	Body    []byte
}

// HTTPResponse represents an HTTP response.
type HTTPResponse struct {
	Headers    map[string][]string
	Body       []byte
	StatusText string // reason phrase, e.g. "Not Found"
	StatusCode int
}

// IsSuccess reports whether the status code is 2xx.
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
