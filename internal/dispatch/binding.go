package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/infrastructure/bridge"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Binding is the resolved backend of one capability client.
type Binding struct {
	Native     ports.NativeHost
	Proxy      ports.ProxyObject
	Remote     *bridge.Client
	Logger     *slog.Logger
	Capability entities.Capability
	Mode       entities.ExecutionMode

	// Probe is the liveness outcome recorded for remote bindings; native and proxy
	// bindings are never probed.
	Probe entities.ProbeState
}

func (b *Binding) IsNative() bool { return b.Mode == entities.ModeNative }
func (b *Binding) IsProxy() bool  { return b.Mode == entities.ModeProxy }
func (b *Binding) IsRemote() bool { return b.Mode == entities.ModeRemote }

// Resolve binds capability to a backend:
//
//  1. an explicit remote target binds to the remote bridge without detection;
//  2. otherwise the detected (or forced) mode is used;
//  3. a detected hosted-proxy whose props lack a complete sub-object for capability
//     degrades to the remote bridge;
//  4. remote bindings run a liveness probe whose failure is logged and recorded in
//     Probe, but does not fail resolution. Settings.BridgeVerified skips the probe.
//
// A forced native or hosted-proxy mode without its backend fails with
// *errors.BackendUnavailableError.
func Resolve(ctx context.Context, capability entities.Capability, s Settings) (*Binding, error) {
	logger := s.logger()

	if s.RemoteTarget {
		return resolveRemote(ctx, capability, s), nil
	}

	forced := s.Mode != ""
	mode := detect.DetectWithLogger(s.Host, s.Mode, logger)

	switch mode {
	case entities.ModeNative:
		native := detect.NativeOf(s.Host)
		if native == nil {
			return nil, &errors.BackendUnavailableError{Capability: capability, Mode: mode, Reason: "no native host present"}
		}
		if !exposesAny(native, capability) {
			return nil, &errors.BackendUnavailableError{
				Capability: capability, Mode: mode,
				Reason: fmt.Sprintf("native host exposes no %s functions", capability),
			}
		}
		return &Binding{Native: native, Capability: capability, Mode: mode, Probe: entities.ProbeNotProbed, Logger: logger}, nil

	case entities.ModeProxy:
		proxy, reason := proxyFor(s.Host, capability)
		if proxy != nil {
			return &Binding{Proxy: proxy, Capability: capability, Mode: mode, Probe: entities.ProbeNotProbed, Logger: logger}, nil
		}
		if forced {
			return nil, &errors.BackendUnavailableError{Capability: capability, Mode: mode, Reason: reason}
		}
		logger.InfoContext(ctx, "dispatch: hosted proxy unusable, using remote bridge",
			"capability", capability, "reason", reason)
		return resolveRemote(ctx, capability, s), nil

	case entities.ModeRemote:
		return resolveRemote(ctx, capability, s), nil

	default:
		return nil, &errors.ValidationError{Field: "mode", Err: fmt.Errorf("unknown execution mode %q", mode)}
	}
}

func resolveRemote(ctx context.Context, capability entities.Capability, s Settings) *Binding {
	logger := s.logger()
	client := s.NewBridge()
	if s.BridgeVerified {
		return &Binding{Remote: client, Capability: capability, Mode: entities.ModeRemote, Probe: entities.ProbeHealthy, Logger: logger}
	}

	probe, err := client.Probe(ctx)
	if err != nil {
		logger.WarnContext(ctx, "dispatch: remote bridge unreachable, deferring failure to first use",
			"capability", capability, "target", client.Target(), "error", err)
	}
	return &Binding{Remote: client, Capability: capability, Mode: entities.ModeRemote, Probe: probe, Logger: logger}
}

func exposesAny(native ports.NativeHost, capability entities.Capability) bool {
	for _, name := range wireformat.NativeFunctions(capability) {
		if native.Has(name) {
			return true
		}
	}
	return false
}

// proxyFor returns the capability's proxy object when the container's props carry a
// structurally complete one, else the reason it is unusable.
func proxyFor(host detect.HostContext, capability entities.Capability) (ports.ProxyObject, string) {
	props := detect.PropsOf(host)
	if props == nil {
		return nil, "container exposes no props"
	}
	raw, ok := props[string(capability)]
	if !ok || raw == nil {
		return nil, fmt.Sprintf("props have no %q sub-object", capability)
	}
	proxy, ok := raw.(ports.ProxyObject)
	if !ok {
		return nil, fmt.Sprintf("props %q sub-object is not a proxy object", capability)
	}
	methods, ok := safeMethods(proxy)
	if !ok {
		return nil, fmt.Sprintf("props %q sub-object cannot list its methods", capability)
	}
	for _, op := range wireformat.Operations(capability) {
		if !slices.Contains(methods, op) {
			return nil, fmt.Sprintf("props %q sub-object lacks method %q", capability, op)
		}
	}
	return proxy, ""
}

func safeMethods(proxy ports.ProxyObject) (methods []string, ok bool) {
	defer func() {
		if recover() != nil {
			methods, ok = nil, false
		}
	}()
	return proxy.Methods(), true
}
