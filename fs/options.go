package sdkfs

import (
	"log/slog"
	"time"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/internal/dispatch"
)

// Option configures New.
type Option func(*options)

type options struct {
	dispatch.Settings
}

func defaultOptions() *options {
	return &options{Settings: dispatch.DefaultSettings()}
}

// WithRemoteTarget binds to the remote bridge at host:port, skipping detection.
func WithRemoteTarget(host string, port int) Option {
	return func(o *options) {
		o.RemoteHost, o.RemotePort, o.RemoteTarget = host, port, true
	}
}

// WithBridgeAddress sets the remote bridge address used if detection selects it,
// without forcing the remote bridge.
func WithBridgeAddress(host string, port int) Option {
	return func(o *options) { o.RemoteHost, o.RemotePort = host, port }
}

// WithMode forces an execution mode.
func WithMode(mode entities.ExecutionMode) Option {
	return func(o *options) { o.Mode = mode }
}

// WithHost sets the host context inspected by detection.
func WithHost(host detect.HostContext) Option {
	return func(o *options) { o.Host = host }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.Logger = l }
}

// WithHTTPClient sets the transport used in remote-bridge mode.
func WithHTTPClient(c ports.HTTPClient) Option {
	return func(o *options) { o.Transport = c }
}

// WithHealthTimeout bounds the remote-bridge liveness probe.
func WithHealthTimeout(d time.Duration) Option {
	return func(o *options) { o.HealthTimeout = d }
}

// WithVerifiedBridge records that the remote bridge was just found healthy, so a
// remote binding skips its own liveness probe.
func WithVerifiedBridge() Option {
	return func(o *options) { o.BridgeVerified = true }
}
