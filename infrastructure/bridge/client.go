package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/wireformat"
)

const (
	// DefaultHost is the bridge host used when none is configured.
	DefaultHost = "localhost"
	// DefaultPort is the bridge port used when none is configured.
	DefaultPort = 1420
	// DefaultHealthTimeout bounds the liveness probe.
	DefaultHealthTimeout = 5 * time.Second

	// HeaderRequestID correlates a request with server-side logs.
	HeaderRequestID = "X-Request-ID"
)

// Client calls the remote bridge at one host:port.
type Client struct {
	transport     ports.HTTPClient
	logger        *slog.Logger
	host          string
	port          int
	healthTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the HTTP transport. Defaults to NewTransport().
func WithTransport(t ports.HTTPClient) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHealthTimeout bounds the liveness probe.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// NewClient creates a Client. An empty host or a zero port fall back to the defaults.
func NewClient(host string, port int, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	c := &Client{
		host:          host,
		port:          port,
		healthTimeout: DefaultHealthTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewTransport()
	}
	return c
}

// Target returns "host:port".
func (c *Client) Target() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// BaseURL returns the scheme and authority every path is appended to.
func (c *Client) BaseURL() string {
	return "http://" + c.Target()
}

// Health issues one GET to the health path. Any 2xx status is healthy; the body is
// not required to be an envelope.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	resp, err := c.transport.Do(ctx, ports.HTTPRequest{
		Method:  http.MethodGet,
		URL:     c.BaseURL() + wireformat.PathHealth,
		Headers: map[string]string{HeaderRequestID: uuid.NewString()},
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.StatusText)
	}
	return nil
}

// Probe runs Health and reports the result as a ProbeState.
func (c *Client) Probe(ctx context.Context) (entities.ProbeState, error) {
	if err := c.Health(ctx); err != nil {
		return entities.ProbeUnreachable, err
	}
	return entities.ProbeHealthy, nil
}

// Call sends body to the route of capability.op and decodes the envelope's data into
// out. A nil out discards the data. GET routes send no body.
func (c *Client) Call(ctx context.Context, capability entities.Capability, op string, body, out any) error {
	route, err := wireformat.Lookup(capability, op)
	if err != nil {
		return err
	}

	req := ports.HTTPRequest{
		Method: route.Method,
		URL:    c.BaseURL() + route.Path,
		Headers: map[string]string{
			"Accept":        "application/json",
			HeaderRequestID: uuid.NewString(),
		},
	}
	if route.Method != http.MethodGet {
		if body == nil {
			body = struct{}{}
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", route.Path, err)
		}
		req.Body = raw
		req.Headers["Content-Type"] = "application/json"
	}

	c.logger.DebugContext(ctx, "bridge: request", "method", route.Method, "path", route.Path,
		"request_id", req.Headers[HeaderRequestID])

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", route.Method, c.BaseURL()+route.Path, err)
	}

	if resp.IsSuccess() && len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	env, err := decodeEnvelope(resp)
	if err != nil || !resp.IsSuccess() || !env.Success {
		return normalize(route, resp, env)
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", route.Path, err)
	}
	return nil
}

func decodeEnvelope(resp *ports.HTTPResponse) (entities.Envelope, error) {
	var env entities.Envelope
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return env, fmt.Errorf("empty body")
	}
	err := json.Unmarshal(resp.Body, &env)
	return env, err
}

// normalize turns a failed response into an OperationError carrying the envelope's
// message, or the HTTP status line when the envelope has none.
func normalize(route wireformat.Route, resp *ports.HTTPResponse, env entities.Envelope) error {
	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.StatusText)
	}
	return &errors.OperationError{
		Capability: route.Capability,
		Operation:  route.Operation,
		Mode:       entities.ModeRemote,
		Message:    msg,
		Code:       env.Error,
		Status:     resp.StatusCode,
	}
}
