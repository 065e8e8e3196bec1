// Package store is the key-value-store capability client.
//
// A Client is bound at construction to one backend (native host, container proxy
// or remote bridge) and to one store file, loaded by New, or by the first operation
// when the bridge was unreachable. Values are arbitrary JSON-encodable data.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/hostcap/application/fallback"
	"github.com/reglet-dev/hostcap/application/validation"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
)

// Entry is one key/value pair with its value decoded.
type Entry struct {
	Value any    `json:"value"`
	Key   string `json:"key"`
}

// Client is a key-value-store client. It is safe for concurrent use.
type Client struct {
	backend  backend
	binding  *dispatch.Binding
	session  *dispatch.Session
	filename string
}

// New resolves the backend and loads the configured store file.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := validation.Struct(entities.StoreLoadRequest{Filename: o.filename}); err != nil {
		return nil, err
	}

	binding, err := dispatch.Resolve(ctx, entities.CapabilityStore, o.Settings)
	if err != nil {
		return nil, err
	}

	be := newBackend(binding)
	session := dispatch.NewSession(func(ctx context.Context) (string, error) {
		id, err := be.load(ctx, o.filename)
		if err != nil {
			return "", fmt.Errorf("store: load %q (%s): %w", o.filename, binding.Mode, err)
		}
		return id, nil
	})
	if err := session.Open(ctx, binding); err != nil {
		return nil, err
	}

	return &Client{backend: be, binding: binding, filename: o.filename, session: session}, nil
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
		"store: preferred backend failed, retrying with remote bridge", o.Logger)
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

// StoreID returns the id the backend issued for the loaded file, or "" while the
// load is still pending against an unreachable bridge.
func (c *Client) StoreID() string { return c.session.Loaded() }

// Filename returns the loaded store file.
func (c *Client) Filename() string { return c.filename }

func (c *Client) request(ctx context.Context, key string) (entities.StoreRequest, error) {
	id, err := c.session.ID(ctx)
	return entities.StoreRequest{StoreID: id, Key: key}, err
}

// Set stores value under key.
func (c *Client) Set(ctx context.Context, key string, value any) error {
	if err := validation.Var("key", key, "required"); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value for %q: %w", key, err)
	}
	req, err := c.request(ctx, key)
	if err != nil {
		return err
	}
	req.Value = raw
	return c.backend.set(ctx, req)
}

// Get returns the value under key and whether it was present.
func (c *Client) Get(ctx context.Context, key string) (any, bool, error) {
	var v any
	found, err := c.GetInto(ctx, key, &v)
	return v, found, err
}

// GetInto decodes the value under key into v. v is left untouched when the key is
// absent.
func (c *Client) GetInto(ctx context.Context, key string, v any) (bool, error) {
	if err := validation.Var("key", key, "required"); err != nil {
		return false, err
	}
	req, err := c.request(ctx, key)
	if err != nil {
		return false, err
	}
	resp, err := c.backend.get(ctx, req)
	if err != nil || !resp.Found {
		return false, err
	}
	if len(resp.Value) > 0 {
		if err := json.Unmarshal(resp.Value, v); err != nil {
			return true, fmt.Errorf("store: decode value of %q: %w", key, err)
		}
	}
	return true, nil
}

// Delete removes key and reports whether it was present.
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	if err := validation.Var("key", key, "required"); err != nil {
		return false, err
	}
	req, err := c.request(ctx, key)
	if err != nil {
		return false, err
	}
	return c.backend.delete(ctx, req)
}

// Clear removes every key.
func (c *Client) Clear(ctx context.Context) error {
	req, err := c.request(ctx, "")
	if err != nil {
		return err
	}
	return c.backend.clear(ctx, req)
}

// Keys returns every key.
func (c *Client) Keys(ctx context.Context) ([]string, error) {
	req, err := c.request(ctx, "")
	if err != nil {
		return nil, err
	}
	return c.backend.keys(ctx, req)
}

// Values returns every value, decoded.
func (c *Client) Values(ctx context.Context) ([]any, error) {
	req, err := c.request(ctx, "")
	if err != nil {
		return nil, err
	}
	raws, err := c.backend.values(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(raws))
	for _, raw := range raws {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("store: decode value: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Entries returns every key/value pair.
func (c *Client) Entries(ctx context.Context) ([]Entry, error) {
	req, err := c.request(ctx, "")
	if err != nil {
		return nil, err
	}
	raws, err := c.backend.entries(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raws))
	for _, e := range raws {
		entry := Entry{Key: e.Key}
		if len(e.Value) > 0 {
			if err := json.Unmarshal(e.Value, &entry.Value); err != nil {
				return nil, fmt.Errorf("store: decode value of %q: %w", e.Key, err)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Length returns the number of keys.
func (c *Client) Length(ctx context.Context) (int, error) {
	req, err := c.request(ctx, "")
	if err != nil {
		return 0, err
	}
	return c.backend.length(ctx, req)
}

// Save persists the store to its file.
func (c *Client) Save(ctx context.Context) error {
	req, err := c.request(ctx, "")
	if err != nil {
		return err
	}
	return c.backend.save(ctx, req)
}

// Reload discards unsaved changes and re-reads the file.
func (c *Client) Reload(ctx context.Context) error {
	req, err := c.request(ctx, "")
	if err != nil {
		return err
	}
	return c.backend.reload(ctx, req)
}

// List returns the filenames of every loaded store.
func (c *Client) List(ctx context.Context) ([]string, error) {
	return c.backend.list(ctx)
}
