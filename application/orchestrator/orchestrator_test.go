package orchestrator

import (
	"context"
	stdErrors "errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/reglet-dev/hostcap/application/config"
	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/internal/hosttest"
	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(host string, port int) *config.Config {
	cfg := config.Default()
	cfg.Host, cfg.Port = host, port
	cfg.SQL.ConnectionString = "sqlite:app.db"
	cfg.Store.Filename = "app.json"
	return cfg
}

func newOrchestrator(t *testing.T, cfg *config.Config, host detect.HostContext) *Orchestrator {
	t.Helper()
	o, err := New(cfg, WithHost(host), WithLogger(quiet))
	require.NoError(t, err)
	return o
}

func TestInitServices_AllReady(t *testing.T) {
	b := hosttest.NewBackend()
	for _, target := range b.Targets(t) {
		t.Run(string(target.Mode), func(t *testing.T) {
			o := newOrchestrator(t, testConfig(target.BridgeHost, target.BridgePort), target.Host)
			assert.Equal(t, target.Mode, o.Mode())

			require.NoError(t, o.InitServices(context.Background()))
			assert.Equal(t, entities.AllCapabilities(), o.Capabilities())

			st, err := o.Store()
			require.NoError(t, err)
			assert.Equal(t, target.Mode, st.Mode())
			fs, err := o.FS()
			require.NoError(t, err)
			assert.Equal(t, target.Mode, fs.Mode())
			db, err := o.SQL()
			require.NoError(t, err)
			assert.Equal(t, target.Mode, db.Mode())
			reg, err := o.AppRegistry()
			require.NoError(t, err)
			assert.Equal(t, target.Mode, reg.Mode())
		})
	}
}

func TestInitServices_OneFailureLeavesSiblingsReady(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	b.Fail(entities.CapabilitySQL, wireformat.OpLoad, stdErrors.New("database is locked"))

	o := newOrchestrator(t, testConfig(host, port), detect.Static{})
	err := o.InitServices(context.Background(), entities.CapabilitySQL, entities.CapabilityStore, entities.CapabilityFS)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	var initErr *errors.CapabilityInitError
	require.True(t, stdErrors.As(errs[0], &initErr))
	assert.Equal(t, entities.CapabilitySQL, initErr.Capability)
	assert.Equal(t, entities.ModeRemote, initErr.Mode)
	assert.Contains(t, err.Error(), "database is locked")

	assert.True(t, o.Ready(entities.CapabilityStore))
	assert.True(t, o.Ready(entities.CapabilityFS))
	assert.False(t, o.Ready(entities.CapabilitySQL))
	assert.Error(t, o.LastError(entities.CapabilitySQL))

	_, err = o.SQL()
	assert.True(t, errors.IsNotInitialized(err))
	assert.Contains(t, err.Error(), "sql")

	_, err = o.AppRegistry()
	assert.True(t, errors.IsNotInitialized(err), "never requested")

	st, err := o.Store()
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), "k", "v"))

	assert.Equal(t, map[entities.Capability]Status{
		entities.CapabilitySQL:   StatusAbsent,
		entities.CapabilityStore: StatusReady,
		entities.CapabilityFS:    StatusReady,
		entities.CapabilityApps:  StatusAbsent,
	}, o.Status())
}

func TestInitServices_MissingConnectionStringFails(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	cfg := testConfig(host, port)
	cfg.SQL.ConnectionString = ""

	o := newOrchestrator(t, cfg, detect.Static{})
	err := o.InitServices(context.Background(), entities.CapabilitySQL, entities.CapabilityApps)

	var ve *errors.ValidationError
	require.True(t, stdErrors.As(err, &ve))
	assert.True(t, o.Ready(entities.CapabilityApps))
}

func unusedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestInitServices_PrecheckFailsFast(t *testing.T) {
	port := unusedPort(t)
	o := newOrchestrator(t, testConfig("127.0.0.1", port), detect.Static{})

	err := o.InitServices(context.Background())
	var connErr *errors.ConnectivityError
	require.True(t, stdErrors.As(err, &connErr))
	assert.Equal(t, entities.ModeRemote, connErr.Mode)
	assert.Equal(t, o.Target(), connErr.Target)
	assert.Contains(t, err.Error(), o.Target())

	assert.Empty(t, o.Capabilities())
	for _, s := range o.Status() {
		assert.Equal(t, StatusAbsent, s, "no capability may start after a failed pre-check")
	}
}

func TestInitServices_PrecheckUnhealthyBridge(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	b.SetHealthy(false)

	o := newOrchestrator(t, testConfig(host, port), detect.Static{})
	err := o.InitServices(context.Background(), entities.CapabilityStore)
	var connErr *errors.ConnectivityError
	require.True(t, stdErrors.As(err, &connErr))
	assert.Zero(t, b.Calls(entities.CapabilityStore, wireformat.OpLoad))
}

func TestInitServices_ForcedNativeWithoutHost(t *testing.T) {
	cfg := testConfig("localhost", 1420)
	cfg.Mode = "native"

	o := newOrchestrator(t, cfg, detect.Static{})
	assert.Equal(t, entities.ModeNative, o.Mode())

	err := o.InitServices(context.Background())
	var connErr *errors.ConnectivityError
	require.True(t, stdErrors.As(err, &connErr))
	assert.Equal(t, entities.ModeNative, connErr.Mode)
	assert.Empty(t, connErr.Target)
}

func TestInitServices_ForcedRemoteIgnoresMarkers(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	cfg := testConfig(host, port)
	cfg.Mode = string(entities.ModeRemote)

	o := newOrchestrator(t, cfg, detect.Static{Native: b.NativeHost()})
	require.NoError(t, o.InitServices(context.Background(), entities.CapabilityFS))

	fs, err := o.FS()
	require.NoError(t, err)
	assert.True(t, fs.IsRemote())
}

func TestInitServices_RemoteChecksBridgeOnce(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	cfg := testConfig(host, port)
	cfg.Mode = string(entities.ModeRemote)

	o := newOrchestrator(t, cfg, detect.Static{})
	require.NoError(t, o.InitServices(context.Background(), entities.CapabilityStore, entities.CapabilityFS))
	assert.Equal(t, 1, b.HealthChecks())

	st, err := o.Store()
	require.NoError(t, err)
	assert.Equal(t, entities.ProbeHealthy, st.Probe())
	fs, err := o.FS()
	require.NoError(t, err)
	assert.Equal(t, entities.ProbeHealthy, fs.Probe())
}

func TestInitServices_FailureReportsFallbackMode(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	b.Fail(entities.CapabilitySQL, wireformat.OpLoad, stdErrors.New("database is locked"))

	o := newOrchestrator(t, testConfig(host, port), detect.Static{Native: b.NativeHost()})
	require.Equal(t, entities.ModeNative, o.Mode())

	err := o.InitServices(context.Background(), entities.CapabilitySQL)
	var initErr *errors.CapabilityInitError
	require.True(t, stdErrors.As(err, &initErr))
	assert.Equal(t, entities.ModeRemote, initErr.Mode)
	assert.Equal(t, 2, b.Calls(entities.CapabilitySQL, wireformat.OpLoad), "native, then remote")
}

func TestInitServices_ContainerWithoutFS(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	container := b.Container(entities.CapabilitySQL, entities.CapabilityStore, entities.CapabilityApps)

	o := newOrchestrator(t, testConfig(host, port), detect.Static{Host: container})
	assert.Equal(t, entities.ModeProxy, o.Mode())
	require.NoError(t, o.InitServices(context.Background()))

	fs, err := o.FS()
	require.NoError(t, err)
	assert.True(t, fs.IsRemote())
	st, err := o.Store()
	require.NoError(t, err)
	assert.True(t, st.IsProxy())
	assert.Equal(t, 1, b.HealthChecks(), "only the degraded capability probes the bridge")
}

func TestDestroy(t *testing.T) {
	b := hosttest.NewBackend()
	target := b.Targets(t)[0]
	o := newOrchestrator(t, testConfig(target.BridgeHost, target.BridgePort), target.Host)
	require.NoError(t, o.InitServices(context.Background(), entities.CapabilityStore))

	o.Destroy()
	_, err := o.Store()
	assert.True(t, errors.IsNotInitialized(err))
	assert.Empty(t, o.Capabilities())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = "sideways"
	_, err := New(cfg)
	var ve *errors.ValidationError
	require.True(t, stdErrors.As(err, &ve))
}
