// Package apps is the application-registry capability client.
package apps

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/reglet-dev/hostcap/application/fallback"
	"github.com/reglet-dev/hostcap/application/validation"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
)

// DefaultPollInterval is how often WaitForStatus re-reads an application.
const DefaultPollInterval = 500 * time.Millisecond

// Client is an application-registry client. It is safe for concurrent use.
type Client struct {
	backend      backend
	binding      *dispatch.Binding
	clock        clock.Clock
	pollInterval time.Duration
}

// New resolves the backend. The registry needs no load step.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	binding, err := dispatch.Resolve(ctx, entities.CapabilityApps, o.Settings)
	if err != nil {
		return nil, err
	}
	return &Client{
		backend:      newBackend(binding),
		binding:      binding,
		clock:        o.clock,
		pollInterval: o.pollInterval,
	}, nil
}

// NewWithFallback runs New and, if it fails, retries once forced to the remote
// bridge.
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
		"apps: preferred backend failed, retrying with remote bridge", o.Logger)
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

func idReq(appID string) (entities.AppIDRequest, error) {
	req := entities.AppIDRequest{AppID: appID}
	return req, validation.Struct(req)
}

// List returns every registered application, ordered by id.
func (c *Client) List(ctx context.Context) ([]entities.AppInfo, error) {
	return c.backend.list(ctx)
}

// Get returns one application.
func (c *Client) Get(ctx context.Context, appID string) (entities.AppInfo, error) {
	req, err := idReq(appID)
	if err != nil {
		return entities.AppInfo{}, err
	}
	return c.backend.get(ctx, req)
}

// Register adds an application. It starts in the installed state.
func (c *Client) Register(ctx context.Context, manifest entities.AppManifest) (entities.AppInfo, error) {
	if err := validation.Struct(manifest); err != nil {
		return entities.AppInfo{}, err
	}
	return c.backend.register(ctx, manifest)
}

// Update applies patch and returns the updated application.
func (c *Client) Update(ctx context.Context, appID string, patch entities.AppPatch) (entities.AppInfo, error) {
	req := entities.AppUpdateRequest{AppID: appID, Patch: patch}
	if err := validation.Struct(req); err != nil {
		return entities.AppInfo{}, err
	}
	return c.backend.update(ctx, req)
}

// Unregister removes an application.
func (c *Client) Unregister(ctx context.Context, appID string) error {
	req, err := idReq(appID)
	if err != nil {
		return err
	}
	return c.backend.unregister(ctx, req)
}

// Activate marks an application active.
func (c *Client) Activate(ctx context.Context, appID string) (entities.AppInfo, error) {
	req, err := idReq(appID)
	if err != nil {
		return entities.AppInfo{}, err
	}
	return c.backend.activate(ctx, req)
}

// Deactivate marks an application inactive.
func (c *Client) Deactivate(ctx context.Context, appID string) (entities.AppInfo, error) {
	req, err := idReq(appID)
	if err != nil {
		return entities.AppInfo{}, err
	}
	return c.backend.deactivate(ctx, req)
}

// Bulk applies action to every id. Per-application failures are reported in the
// result, not as an error.
func (c *Client) Bulk(ctx context.Context, action entities.BulkAction, appIDs ...string) (entities.BulkResult, error) {
	req := entities.BulkRequest{Action: action, AppIDs: appIDs}
	if err := validation.Struct(req); err != nil {
		return entities.BulkResult{}, err
	}
	return c.backend.bulk(ctx, req)
}

// Health reports the health of one application.
func (c *Client) Health(ctx context.Context, appID string) (entities.AppHealth, error) {
	req, err := idReq(appID)
	if err != nil {
		return entities.AppHealth{}, err
	}
	return c.backend.health(ctx, req)
}

// Stats summarizes the registry.
func (c *Client) Stats(ctx context.Context) (entities.RegistryStats, error) {
	return c.backend.stats(ctx)
}

// Events returns the event history, oldest first, filtered by q.
func (c *Client) Events(ctx context.Context, q entities.EventQuery) ([]entities.AppEvent, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	return c.backend.events(ctx, q)
}

// WaitForStatus polls an application until it reaches status or timeout elapses.
// It reports false on timeout. Failed polls are logged and retried; only a
// cancelled ctx ends the wait with an error.
func (c *Client) WaitForStatus(ctx context.Context, appID string, status entities.AppStatus, timeout time.Duration) (bool, error) {
	req, err := idReq(appID)
	if err != nil {
		return false, err
	}
	if c.poll(ctx, req, status) {
		return true, nil
	}
	if timeout <= 0 {
		return false, nil
	}

	deadline := c.clock.Timer(timeout)
	defer deadline.Stop()
	ticker := c.clock.Ticker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
			if c.poll(ctx, req, status) {
				return true, nil
			}
		}
	}
}

func (c *Client) poll(ctx context.Context, req entities.AppIDRequest, status entities.AppStatus) bool {
	app, err := c.backend.get(ctx, req)
	if err != nil {
		c.binding.Logger.DebugContext(ctx, "apps: status poll failed", "app_id", req.AppID, "error", err)
		return false
	}
	return app.Status == status
}
