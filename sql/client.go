// Package sdksql is the SQL capability client.
//
// New opens (or reuses) one connection on the bound backend; every statement runs
// on that connection until Close. Query parameters are positional and JSON-encoded.
package sdksql

import (
	"context"
	"fmt"

	"github.com/reglet-dev/hostcap/application/fallback"
	"github.com/reglet-dev/hostcap/application/validation"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
)

// Client is a SQL client bound to one connection. It is safe for concurrent use.
type Client struct {
	backend backend
	binding *dispatch.Binding
	session *dispatch.Session
}

// New resolves the backend and loads the configured connection string.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	load := entities.SQLLoadRequest{ConnectionString: o.connectionString}
	if err := validation.Struct(load); err != nil {
		return nil, err
	}

	binding, err := dispatch.Resolve(ctx, entities.CapabilitySQL, o.Settings)
	if err != nil {
		return nil, err
	}

	be := newBackend(binding)
	session := dispatch.NewSession(func(ctx context.Context) (string, error) {
		id, err := be.load(ctx, load)
		if err != nil {
			return "", fmt.Errorf("sql: load connection (%s): %w", binding.Mode, err)
		}
		return id, nil
	})
	if err := session.Open(ctx, binding); err != nil {
		return nil, err
	}
	return &Client{backend: be, binding: binding, session: session}, nil
}

// NewWithFallback runs New and, if it fails, retries once forced to the remote
// bridge with the same parameters.
func NewWithFallback(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return fallback.Retry(ctx,
		func(ctx context.Context) (*Client, error) { return New(ctx, opts...) },
		func(ctx context.Context) (*Client, error) {
			return New(ctx, append(opts[:len(opts):len(opts)], WithMode(entities.ModeRemote))...)
		},
		"sql: preferred backend failed, retrying with remote bridge", o.Logger)
}

func newBackend(b *dispatch.Binding) backend {
	switch {
	case b.IsNative():
		return &nativeBackend{wireBackend{call: b.Caller()}}
	case b.IsProxy():
		return &proxyBackend{binding: b}
	default:
		return &remoteBackend{wireBackend{call: b.Caller()}}
	}
}

func (c *Client) Mode() entities.ExecutionMode { return c.binding.Mode }
func (c *Client) IsNative() bool               { return c.binding.IsNative() }
func (c *Client) IsProxy() bool                { return c.binding.IsProxy() }
func (c *Client) IsRemote() bool               { return c.binding.IsRemote() }

// Probe reports the liveness probe outcome of a remote-bridge client.
func (c *Client) Probe() entities.ProbeState { return c.binding.Probe }

// ConnectionID is the id the backend issued for this client's connection, or ""
// while the load is still pending against an unreachable bridge.
func (c *Client) ConnectionID() string { return c.session.Loaded() }

// query validates before loading, so invalid input fails the same way whether or
// not the connection is open yet.
func (c *Client) query(ctx context.Context, query string, args []any) (entities.SQLQueryRequest, error) {
	req := entities.SQLQueryRequest{Query: query, Params: args}
	if err := validation.Struct(req); err != nil {
		return req, err
	}
	id, err := c.session.ID(ctx)
	req.ConnectionID = id
	return req, err
}

// Execute runs a statement that returns no rows.
func (c *Client) Execute(ctx context.Context, query string, args ...any) (entities.ExecResult, error) {
	req, err := c.query(ctx, query, args)
	if err != nil {
		return entities.ExecResult{}, err
	}
	return c.backend.execute(ctx, req)
}

// Select runs a query and returns its rows. An empty result is a non-nil empty slice.
func (c *Client) Select(ctx context.Context, query string, args ...any) ([]entities.Row, error) {
	req, err := c.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	rows, err := c.backend.selectRows(ctx, req)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entities.Row{}
	}
	return rows, nil
}

// Close closes the connection. Later statements fail on the backend. A client whose
// connection was never opened has nothing to close.
func (c *Client) Close(ctx context.Context) error {
	id := c.session.Loaded()
	if id == "" {
		return nil
	}
	return c.backend.close(ctx, entities.SQLCloseRequest{ConnectionID: id})
}

// Connections lists the ids of the connections open on the backend.
func (c *Client) Connections(ctx context.Context) ([]string, error) {
	return c.backend.connections(ctx)
}
