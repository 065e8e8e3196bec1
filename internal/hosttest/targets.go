package hosttest

import (
	"testing"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
)

// Target is one way of reaching a Backend: the host context a client detects, and
// the bridge address it falls back to.
type Target struct {
	Host       detect.HostContext
	Mode       entities.ExecutionMode
	BridgeHost string
	BridgePort int
}

// Targets starts the HTTP view and returns one Target per execution mode, in the
// order native, proxy, remote. Every Target carries the bridge address so that a
// degraded client still reaches the same Backend.
func (b *Backend) Targets(tb testing.TB) []Target {
	tb.Helper()
	host, port := b.StartServer(tb)
	return []Target{
		{Mode: entities.ModeNative, Host: detect.Static{Native: b.NativeHost()}, BridgeHost: host, BridgePort: port},
		{Mode: entities.ModeProxy, Host: detect.Static{Host: b.Container()}, BridgeHost: host, BridgePort: port},
		{Mode: entities.ModeRemote, Host: detect.Static{}, BridgeHost: host, BridgePort: port},
	}
}
