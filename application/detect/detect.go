// Package detect decides which execution mode a capability client should bind to.
//
// Detection is a pure function of a HostContext: native host present wins, then an
// enclosing container, then the remote bridge. It never fails; a marker whose probe
// panics is treated as absent.
package detect

import (
	"log/slog"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
)

// HostContext exposes the two execution-context markers.
type HostContext interface {
	// NativeHost returns the native host, or nil when not running inside one.
	NativeHost() ports.NativeHost
	// Container returns the hosting container, or nil when not hosted.
	Container() ports.Container
}

// Static is a HostContext with fixed markers. The zero value has neither marker.
type Static struct {
	Native ports.NativeHost
	Host   ports.Container
}

func (s Static) NativeHost() ports.NativeHost { return s.Native }
func (s Static) Container() ports.Container   { return s.Host }

// Detect resolves the execution mode. A non-empty force is returned unchanged.
func Detect(host HostContext, force entities.ExecutionMode) entities.ExecutionMode {
	return DetectWithLogger(host, force, nil)
}

// DetectWithLogger is Detect with diagnostics at DEBUG level.
func DetectWithLogger(host HostContext, force entities.ExecutionMode, logger *slog.Logger) entities.ExecutionMode {
	if logger == nil {
		logger = slog.Default()
	}

	if force != "" {
		logger.Debug("detect: mode forced", "mode", force)
		return force
	}

	mode := entities.ModeRemote
	switch {
	case HasNative(host):
		mode = entities.ModeNative
	case HasContainer(host):
		mode = entities.ModeProxy
	}
	logger.Debug("detect: mode resolved", "mode", mode)
	return mode
}

// HasNative reports whether host carries a native-host marker.
func HasNative(host HostContext) bool {
	return NativeOf(host) != nil
}

// HasContainer reports whether host carries a container marker.
func HasContainer(host HostContext) bool {
	return ContainerOf(host) != nil
}

// NativeOf returns the native host of host, or nil when absent or when probing it
// panics.
func NativeOf(host HostContext) (native ports.NativeHost) {
	if host == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			native = nil
		}
	}()
	return host.NativeHost()
}

// ContainerOf returns the container of host, or nil when absent or when probing it
// panics.
func ContainerOf(host HostContext) (container ports.Container) {
	if host == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			container = nil
		}
	}()
	return host.Container()
}

// PropsOf returns the container's exposed props, or nil when the container is
// absent, exposes nothing, or panics while being read.
func PropsOf(host HostContext) (props map[string]any) {
	c := ContainerOf(host)
	if c == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			props = nil
		}
	}()
	return c.Props()
}
