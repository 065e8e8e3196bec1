// Package sdkfs is the filesystem capability client.
//
// Paths are interpreted by the bound backend. Binary contents travel base64
// encoded on the JSON wire; callers always see []byte.
package sdkfs

import (
	"context"

	"github.com/reglet-dev/hostcap/application/fallback"
	"github.com/reglet-dev/hostcap/application/validation"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
)

// Client is a filesystem client. It is safe for concurrent use.
type Client struct {
	backend backend
	binding *dispatch.Binding
}

// New resolves the backend. A remote-bridge client is returned even when the bridge
// did not answer its liveness probe; see Probe.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	binding, err := dispatch.Resolve(ctx, entities.CapabilityFS, o.Settings)
	if err != nil {
		return nil, err
	}
	return &Client{backend: newBackend(binding), binding: binding}, nil
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
		"fs: preferred backend failed, retrying with remote bridge", o.Logger)
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

func pathReq(path string, recursive bool) (entities.FSPathRequest, error) {
	req := entities.FSPathRequest{Path: path, Recursive: recursive}
	return req, validation.Struct(req)
}

// ReadTextFile returns the contents of a UTF-8 file.
func (c *Client) ReadTextFile(ctx context.Context, path string) (string, error) {
	req, err := pathReq(path, false)
	if err != nil {
		return "", err
	}
	return c.backend.readText(ctx, req)
}

// WriteTextFile creates or replaces a UTF-8 file.
func (c *Client) WriteTextFile(ctx context.Context, path, contents string) error {
	req := entities.FSWriteTextRequest{Path: path, Contents: contents}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.backend.writeText(ctx, req)
}

// ReadFile returns the raw contents of a file.
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	req, err := pathReq(path, false)
	if err != nil {
		return nil, err
	}
	return c.backend.readBinary(ctx, req)
}

// WriteFile creates or replaces a file with raw contents.
func (c *Client) WriteFile(ctx context.Context, path string, data []byte) error {
	req := entities.FSWriteBinaryRequest{Path: path, Data: data}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.backend.writeBinary(ctx, req)
}

// RemoveFile deletes a file.
func (c *Client) RemoveFile(ctx context.Context, path string) error {
	req, err := pathReq(path, false)
	if err != nil {
		return err
	}
	return c.backend.removeFile(ctx, req)
}

// CreateDir creates a directory, and its parents when recursive is set.
func (c *Client) CreateDir(ctx context.Context, path string, recursive bool) error {
	req, err := pathReq(path, recursive)
	if err != nil {
		return err
	}
	return c.backend.createDir(ctx, req)
}

// RemoveDir deletes a directory. A non-empty directory requires recursive.
func (c *Client) RemoveDir(ctx context.Context, path string, recursive bool) error {
	req, err := pathReq(path, recursive)
	if err != nil {
		return err
	}
	return c.backend.removeDir(ctx, req)
}

// ReadDir lists the direct children of a directory.
func (c *Client) ReadDir(ctx context.Context, path string) ([]entities.DirEntry, error) {
	req, err := pathReq(path, false)
	if err != nil {
		return nil, err
	}
	return c.backend.readDir(ctx, req)
}

// Metadata describes a file or directory.
func (c *Client) Metadata(ctx context.Context, path string) (entities.FileInfo, error) {
	req, err := pathReq(path, false)
	if err != nil {
		return entities.FileInfo{}, err
	}
	return c.backend.metadata(ctx, req)
}

// Exists reports whether path names a file or directory.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	req, err := pathReq(path, false)
	if err != nil {
		return false, err
	}
	return c.backend.exists(ctx, req)
}

// CopyFile copies a file, replacing the destination.
func (c *Client) CopyFile(ctx context.Context, from, to string) error {
	req := entities.FSCopyRequest{From: from, To: to}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.backend.copyFile(ctx, req)
}

// RenameFile moves a file, replacing the destination.
func (c *Client) RenameFile(ctx context.Context, from, to string) error {
	req := entities.FSCopyRequest{From: from, To: to}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.backend.renameFile(ctx, req)
}
