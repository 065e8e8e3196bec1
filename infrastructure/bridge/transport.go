package bridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reglet-dev/hostcap/domain/ports"
)

// MaxResponseBodySize bounds how much of a response body is read (10 MB).
const MaxResponseBodySize = 10 * 1024 * 1024

// DefaultTimeout applies to requests whose context carries no deadline.
const DefaultTimeout = 30 * time.Second

var _ ports.HTTPClient = (*Transport)(nil)

// Transport implements ports.HTTPClient with net/http.
type Transport struct {
	client *http.Client
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithStdClient replaces the underlying *http.Client.
func WithStdClient(c *http.Client) TransportOption {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// NewTransport creates a Transport with DefaultTimeout.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do executes req. Non-2xx responses are returned, not treated as errors.
func (t *Transport) Do(ctx context.Context, req ports.HTTPRequest) (*ports.HTTPResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &ports.HTTPResponse{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
