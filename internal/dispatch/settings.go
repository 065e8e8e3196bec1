package dispatch

import (
	"log/slog"
	"time"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/infrastructure/bridge"
)

// Settings are the construction inputs common to every capability client.
type Settings struct {
	Host          detect.HostContext
	Transport     ports.HTTPClient
	Logger        *slog.Logger
	Mode          entities.ExecutionMode
	RemoteHost    string
	RemotePort    int
	HealthTimeout time.Duration

	// RemoteTarget is set when RemoteHost/RemotePort were given explicitly; it forces
	// the remote bridge and skips detection.
	RemoteTarget bool

	// BridgeVerified is set when the caller has already checked the bridge's health;
	// remote bindings then record ProbeHealthy without probing again.
	BridgeVerified bool
}

// DefaultSettings returns settings bound to the ambient host context.
func DefaultSettings() Settings {
	return Settings{
		Host:          detect.Ambient(),
		Logger:        slog.Default(),
		RemoteHost:    bridge.DefaultHost,
		RemotePort:    bridge.DefaultPort,
		HealthTimeout: bridge.DefaultHealthTimeout,
	}
}

// ForceRemote returns a copy of s forced to the remote bridge, keeping every other
// parameter. The fallback initializers retry with it.
func (s Settings) ForceRemote() Settings {
	s.Mode = entities.ModeRemote
	return s
}

func (s Settings) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// NewBridge builds the remote-bridge client described by s.
func (s Settings) NewBridge() *bridge.Client {
	return bridge.NewClient(s.RemoteHost, s.RemotePort,
		bridge.WithTransport(s.Transport),
		bridge.WithLogger(s.logger()),
		bridge.WithHealthTimeout(s.HealthTimeout),
	)
}
