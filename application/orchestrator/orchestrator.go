// Package orchestrator aggregates the capability clients behind one handle sharing
// configuration, a resolved execution mode and a connectivity pre-check.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/reglet-dev/hostcap/application/config"
	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/apps"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/domain/ports"
	sdkfs "github.com/reglet-dev/hostcap/fs"
	"github.com/reglet-dev/hostcap/infrastructure/bridge"
	hostlog "github.com/reglet-dev/hostcap/log"
	sdksql "github.com/reglet-dev/hostcap/sql"
	"github.com/reglet-dev/hostcap/store"
	"go.uber.org/multierr"
)

// Status is the lifecycle state of one capability.
type Status string

const (
	StatusAbsent       Status = "absent"
	StatusInitializing Status = "initializing"
	StatusReady        Status = "ready"
)

// Option configures New.
type Option func(*Orchestrator)

// WithHost sets the host context used for detection and the pre-check.
func WithHost(host detect.HostContext) Option {
	return func(o *Orchestrator) { o.host = host }
}

// WithLogger sets the logger. By default one is built from Config.Verbose.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithHTTPClient sets the remote-bridge transport.
func WithHTTPClient(c ports.HTTPClient) Option {
	return func(o *Orchestrator) { o.transport = c }
}

// Orchestrator owns at most one client per capability. Accessors are safe for
// concurrent use; InitServices must not run concurrently with itself.
type Orchestrator struct {
	cfg       *config.Config
	host      detect.HostContext
	logger    *slog.Logger
	transport ports.HTTPClient
	mode      entities.ExecutionMode

	mu      sync.RWMutex
	status  map[entities.Capability]Status
	lastErr map[entities.Capability]error
	sql     *sdksql.Client
	store   *store.Client
	fs      *sdkfs.Client
	apps    *apps.Client
}

// New resolves the execution mode once: the configured mode if forced, detection
// otherwise. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:     cfg,
		host:    detect.Ambient(),
		status:  map[entities.Capability]Status{},
		lastErr: map[entities.Capability]error{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = hostlog.New(cfg.Verbose, os.Stderr)
	}

	o.mode = detect.DetectWithLogger(o.host, cfg.ExecutionMode(), o.logger)
	o.logger.Debug("orchestrator: mode resolved", "mode", o.mode, "forced", cfg.ExecutionMode() != "")
	return o, nil
}

// Mode is the resolved execution mode.
func (o *Orchestrator) Mode() entities.ExecutionMode { return o.mode }

// Target is the remote bridge address, host:port.
func (o *Orchestrator) Target() string { return o.cfg.Target() }

func (o *Orchestrator) bridge() *bridge.Client {
	return bridge.NewClient(o.cfg.Host, o.cfg.Port,
		bridge.WithTransport(o.transport),
		bridge.WithLogger(o.logger),
		bridge.WithHealthTimeout(o.cfg.HealthTimeout),
	)
}

// Precheck runs the liveness check of the resolved mode: marker presence for the
// native host and the container, a health request for the remote bridge.
func (o *Orchestrator) Precheck(ctx context.Context) error {
	switch o.mode {
	case entities.ModeNative:
		if !detect.HasNative(o.host) {
			return &errors.ConnectivityError{Mode: o.mode, Err: fmt.Errorf("native host not present")}
		}
	case entities.ModeProxy:
		if !detect.HasContainer(o.host) {
			return &errors.ConnectivityError{Mode: o.mode, Err: fmt.Errorf("hosting container not present")}
		}
		if detect.PropsOf(o.host) == nil {
			return &errors.ConnectivityError{Mode: o.mode, Err: fmt.Errorf("hosting container exposes no props")}
		}
	default:
		if err := o.bridge().Health(ctx); err != nil {
			return &errors.ConnectivityError{Mode: o.mode, Target: o.Target(), Err: err}
		}
	}
	return nil
}

// InitServices runs the pre-check and then initializes the requested capabilities
// (all of them when none are named) concurrently. A failed pre-check aborts before
// any capability starts. Otherwise each failure is reported as a
// *errors.CapabilityInitError, combined with multierr, while the other capabilities
// still become ready.
func (o *Orchestrator) InitServices(ctx context.Context, caps ...entities.Capability) error {
	if err := o.Precheck(ctx); err != nil {
		o.logger.Error("orchestrator: pre-check failed", "mode", o.mode, "error", err)
		return err
	}

	caps = dedupe(caps)
	o.mu.Lock()
	for _, c := range caps {
		o.status[c] = StatusInitializing
	}
	o.mu.Unlock()

	errs := make([]error, len(caps))
	var wg sync.WaitGroup
	for i, c := range caps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = o.initOne(ctx, c)
		}()
	}
	wg.Wait()

	return multierr.Combine(errs...)
}

func dedupe(caps []entities.Capability) []entities.Capability {
	if len(caps) == 0 {
		return entities.AllCapabilities()
	}
	seen := map[entities.Capability]bool{}
	out := make([]entities.Capability, 0, len(caps))
	for _, c := range caps {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (o *Orchestrator) initOne(ctx context.Context, c entities.Capability) error {
	err := o.construct(ctx, c)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.status[c] = StatusAbsent
		o.lastErr[c] = err
		o.logger.Warn("orchestrator: capability failed to initialize", "capability", c, "error", err)
		// The fallback initializer's last attempt is always the remote bridge.
		return &errors.CapabilityInitError{Capability: c, Mode: entities.ModeRemote, Err: err}
	}
	o.status[c] = StatusReady
	delete(o.lastErr, c)
	o.logger.Debug("orchestrator: capability ready", "capability", c)
	return nil
}

// construct builds one client with the shared settings and stores it. It holds no
// lock while the constructor runs. In remote-bridge mode the pre-check has just
// probed the bridge, so the clients do not probe it again.
func (o *Orchestrator) construct(ctx context.Context, c entities.Capability) error {
	forced := o.cfg.ExecutionMode()
	s := shared{
		host:      o.host,
		logger:    o.logger,
		transport: o.transport,
		bridgeH:   o.cfg.Host,
		bridgeP:   o.cfg.Port,
		timeout:   o.cfg.HealthTimeout,
		forced:    forced,
		verified:  o.mode == entities.ModeRemote,
	}

	switch c {
	case entities.CapabilitySQL:
		client, err := sdksql.NewWithFallback(ctx, append(s.sqlOptions(), sdksql.WithConnectionString(o.cfg.SQL.ConnectionString))...)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.sql = client
		o.mu.Unlock()
	case entities.CapabilityStore:
		client, err := store.NewWithFallback(ctx, append(s.storeOptions(), store.WithFilename(o.cfg.Store.Filename))...)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.store = client
		o.mu.Unlock()
	case entities.CapabilityFS:
		client, err := sdkfs.NewWithFallback(ctx, s.fsOptions()...)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.fs = client
		o.mu.Unlock()
	case entities.CapabilityApps:
		client, err := apps.NewWithFallback(ctx, s.appsOptions()...)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.apps = client
		o.mu.Unlock()
	default:
		return fmt.Errorf("unknown capability %q", c)
	}
	return nil
}

// Ready reports whether c initialized successfully.
func (o *Orchestrator) Ready(c entities.Capability) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status[c] == StatusReady
}

// Capabilities lists the ready capabilities in their canonical order.
func (o *Orchestrator) Capabilities() []entities.Capability {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []entities.Capability
	for _, c := range entities.AllCapabilities() {
		if o.status[c] == StatusReady {
			out = append(out, c)
		}
	}
	return out
}

// Status returns the state of every capability.
func (o *Orchestrator) Status() map[entities.Capability]Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[entities.Capability]Status, 4)
	for _, c := range entities.AllCapabilities() {
		s, ok := o.status[c]
		if !ok {
			s = StatusAbsent
		}
		out[c] = s
	}
	return out
}

// LastError returns the error of c's most recent failed initialization, if any.
func (o *Orchestrator) LastError(c entities.Capability) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr[c]
}

func (o *Orchestrator) notReady(c entities.Capability) error {
	if o.status[c] != StatusReady {
		return &errors.NotInitializedError{Capability: c}
	}
	return nil
}

// SQL returns the relational-data client.
func (o *Orchestrator) SQL() (*sdksql.Client, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.notReady(entities.CapabilitySQL); err != nil {
		return nil, err
	}
	return o.sql, nil
}

// Store returns the key-value-store client.
func (o *Orchestrator) Store() (*store.Client, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.notReady(entities.CapabilityStore); err != nil {
		return nil, err
	}
	return o.store, nil
}

// FS returns the filesystem client.
func (o *Orchestrator) FS() (*sdkfs.Client, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.notReady(entities.CapabilityFS); err != nil {
		return nil, err
	}
	return o.fs, nil
}

// AppRegistry returns the application-registry client.
func (o *Orchestrator) AppRegistry() (*apps.Client, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.notReady(entities.CapabilityApps); err != nil {
		return nil, err
	}
	return o.apps, nil
}

// Destroy drops every client. No close call is issued to any backend.
func (o *Orchestrator) Destroy() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sql, o.store, o.fs, o.apps = nil, nil, nil, nil
	o.status = map[entities.Capability]Status{}
	o.lastErr = map[entities.Capability]error{}
}
