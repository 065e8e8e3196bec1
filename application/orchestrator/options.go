package orchestrator

import (
	"log/slog"
	"time"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/apps"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
	sdkfs "github.com/reglet-dev/hostcap/fs"
	sdksql "github.com/reglet-dev/hostcap/sql"
	"github.com/reglet-dev/hostcap/store"
)

// shared holds the settings every capability is constructed with. The bridge
// address is never passed as an explicit remote target so detection still runs.
type shared struct {
	host      detect.HostContext
	logger    *slog.Logger
	transport ports.HTTPClient
	bridgeH   string
	bridgeP   int
	timeout   time.Duration
	forced    entities.ExecutionMode

	// verified is set when the pre-check already found the bridge healthy.
	verified bool
}

func (s shared) sqlOptions() []sdksql.Option {
	opts := []sdksql.Option{
		sdksql.WithHost(s.host),
		sdksql.WithLogger(s.logger),
		sdksql.WithHTTPClient(s.transport),
		sdksql.WithBridgeAddress(s.bridgeH, s.bridgeP),
		sdksql.WithHealthTimeout(s.timeout),
	}
	if s.forced != "" {
		opts = append(opts, sdksql.WithMode(s.forced))
	}
	if s.verified {
		opts = append(opts, sdksql.WithVerifiedBridge())
	}
	return opts
}

func (s shared) storeOptions() []store.Option {
	opts := []store.Option{
		store.WithHost(s.host),
		store.WithLogger(s.logger),
		store.WithHTTPClient(s.transport),
		store.WithBridgeAddress(s.bridgeH, s.bridgeP),
		store.WithHealthTimeout(s.timeout),
	}
	if s.forced != "" {
		opts = append(opts, store.WithMode(s.forced))
	}
	if s.verified {
		opts = append(opts, store.WithVerifiedBridge())
	}
	return opts
}

func (s shared) fsOptions() []sdkfs.Option {
	opts := []sdkfs.Option{
		sdkfs.WithHost(s.host),
		sdkfs.WithLogger(s.logger),
		sdkfs.WithHTTPClient(s.transport),
		sdkfs.WithBridgeAddress(s.bridgeH, s.bridgeP),
		sdkfs.WithHealthTimeout(s.timeout),
	}
	if s.forced != "" {
		opts = append(opts, sdkfs.WithMode(s.forced))
	}
	if s.verified {
		opts = append(opts, sdkfs.WithVerifiedBridge())
	}
	return opts
}

func (s shared) appsOptions() []apps.Option {
	opts := []apps.Option{
		apps.WithHost(s.host),
		apps.WithLogger(s.logger),
		apps.WithHTTPClient(s.transport),
		apps.WithBridgeAddress(s.bridgeH, s.bridgeP),
		apps.WithHealthTimeout(s.timeout),
	}
	if s.forced != "" {
		opts = append(opts, apps.WithMode(s.forced))
	}
	if s.verified {
		opts = append(opts, apps.WithVerifiedBridge())
	}
	return opts
}
