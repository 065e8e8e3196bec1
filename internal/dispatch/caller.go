package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/infrastructure/bridge"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Caller sends one operation's JSON request to a wire-speaking backend and decodes
// the result into out (nil discards it).
type Caller interface {
	Call(ctx context.Context, op string, req, out any) error
}

// NativeCaller calls "<capability>.<op>" functions on a native host.
type NativeCaller struct {
	Host       ports.NativeHost
	Capability entities.Capability
}

// Call implements Caller.
func (c NativeCaller) Call(ctx context.Context, op string, req, out any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s.%s request: %w", c.Capability, op, err)
	}

	raw, err := c.Host.Invoke(ctx, wireformat.NativeFunction(c.Capability, op), payload)
	if err != nil {
		return err
	}

	var reply wireformat.NativeReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("failed to decode %s.%s reply: %w", c.Capability, op, err)
	}
	if reply.Failed() {
		return &errors.OperationError{
			Capability: c.Capability,
			Operation:  op,
			Mode:       entities.ModeNative,
			Message:    reply.Message,
			Code:       reply.Error,
			Status:     reply.Code,
		}
	}
	if out == nil || len(reply.Result) == 0 || bytes.Equal(reply.Result, []byte("null")) {
		return nil
	}
	return json.Unmarshal(reply.Result, out)
}

// RemoteCaller calls the remote bridge.
type RemoteCaller struct {
	Client     *bridge.Client
	Capability entities.Capability
}

// Call implements Caller.
func (c RemoteCaller) Call(ctx context.Context, op string, req, out any) error {
	return c.Client.Call(ctx, c.Capability, op, req, out)
}

// Caller returns the wire caller of a native or remote binding. It returns nil for
// proxy bindings, which speak the container's own shapes.
func (b *Binding) Caller() Caller {
	switch {
	case b.Native != nil:
		return NativeCaller{Host: b.Native, Capability: b.Capability}
	case b.Remote != nil:
		return RemoteCaller{Client: b.Remote, Capability: b.Capability}
	default:
		return nil
	}
}
