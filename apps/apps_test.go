package apps

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/internal/hosttest"
	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, target hosttest.Target, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithHost(target.Host), WithBridgeAddress(target.BridgeHost, target.BridgePort)}
	c, err := New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func TestLifecycle_AllModes(t *testing.T) {
	ctx := context.Background()

	for i, mode := range []entities.ExecutionMode{entities.ModeNative, entities.ModeProxy, entities.ModeRemote} {
		t.Run(string(mode), func(t *testing.T) {
			b := hosttest.NewBackend()
			c := newClient(t, b.Targets(t)[i])
			require.Equal(t, mode, c.Mode())

			app, err := c.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes", Version: "1.0.0"})
			require.NoError(t, err)
			assert.Equal(t, entities.AppStatusInstalled, app.Status)
			assert.Equal(t, "notes", app.ID)

			_, err = c.Register(ctx, entities.AppManifest{ID: "mail", Name: "Mail"})
			require.NoError(t, err)

			app, err = c.Update(ctx, "notes", entities.AppPatch{Version: ptr("1.1.0")})
			require.NoError(t, err)
			assert.Equal(t, "1.1.0", app.Version)
			assert.Equal(t, "Notes", app.Name)

			app, err = c.Activate(ctx, "notes")
			require.NoError(t, err)
			assert.Equal(t, entities.AppStatusActive, app.Status)

			health, err := c.Health(ctx, "notes")
			require.NoError(t, err)
			assert.True(t, health.Healthy)

			health, err = c.Health(ctx, "mail")
			require.NoError(t, err)
			assert.False(t, health.Healthy)
			assert.Equal(t, "app is installed", health.Message)

			stats, err := c.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, entities.RegistryStats{Total: 2, Active: 1, Inactive: 1}, stats)

			res, err := c.Bulk(ctx, entities.BulkDeactivate, "notes", "ghost")
			require.NoError(t, err)
			assert.Equal(t, []string{"notes"}, res.Succeeded)
			assert.Equal(t, map[string]string{"ghost": "app not found: ghost"}, res.Failed)

			list, err := c.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "mail", list[0].ID)
			assert.Equal(t, entities.AppStatusInactive, list[1].Status)

			events, err := c.Events(ctx, entities.EventQuery{AppID: "notes", Limit: 2})
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, "activated", events[0].Type)
			assert.Equal(t, "deactivated", events[1].Type)

			require.NoError(t, c.Unregister(ctx, "mail"))
			_, err = c.Get(ctx, "mail")
			require.Error(t, err)
			assert.Equal(t, "app not found: mail", err.Error())
		})
	}
}

func TestReads_IdenticalAcrossModes(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	targets := b.Targets(t)

	seed := newClient(t, targets[0])
	_, err := seed.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes", Metadata: map[string]any{"owner_team": "core"}})
	require.NoError(t, err)

	var apps [][]entities.AppInfo
	var events [][]entities.AppEvent
	for _, target := range targets {
		c := newClient(t, target)
		list, err := c.List(ctx)
		require.NoError(t, err)
		apps = append(apps, list)
		evts, err := c.Events(ctx, entities.EventQuery{})
		require.NoError(t, err)
		events = append(events, evts)
	}
	assert.Equal(t, apps[0], apps[1])
	assert.Equal(t, apps[0], apps[2])
	assert.Equal(t, events[0], events[1])
	assert.Equal(t, events[0], events[2])
}

func TestValidation(t *testing.T) {
	b := hosttest.NewBackend()
	c := newClient(t, b.Targets(t)[2])
	ctx := context.Background()

	var ve *errors.ValidationError
	_, err := c.Register(ctx, entities.AppManifest{ID: "x"})
	require.True(t, stdErrors.As(err, &ve))
	assert.Equal(t, "Name", ve.Field)

	_, err = c.Bulk(ctx, entities.BulkAction("restart"), "x")
	require.True(t, stdErrors.As(err, &ve))
	assert.Equal(t, "Action", ve.Field)

	_, err = c.Bulk(ctx, entities.BulkActivate)
	require.True(t, stdErrors.As(err, &ve))

	_, err = c.Events(ctx, entities.EventQuery{Limit: -1})
	require.True(t, stdErrors.As(err, &ve))

	assert.Zero(t, b.Calls(entities.CapabilityApps, wireformat.OpRegister))
	assert.Zero(t, b.Calls(entities.CapabilityApps, wireformat.OpBulk))
}

type waitResult struct {
	err error
	ok  bool
}

func startWait(ctx context.Context, c *Client, appID string, status entities.AppStatus, timeout time.Duration) <-chan waitResult {
	done := make(chan waitResult, 1)
	go func() {
		ok, err := c.WaitForStatus(ctx, appID, status, timeout)
		done <- waitResult{ok: ok, err: err}
	}()
	return done
}

// advanceUntil moves the mock clock forward until the wait finishes.
func advanceUntil(t *testing.T, mock *clock.Mock, step time.Duration, done <-chan waitResult) waitResult {
	t.Helper()
	var res waitResult
	require.Eventually(t, func() bool {
		select {
		case res = <-done:
			return true
		default:
			mock.Add(step)
			return false
		}
	}, 5*time.Second, time.Millisecond)
	return res
}

func TestWaitForStatus_Reached(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	mock := clock.NewMock()
	c := newClient(t, b.Targets(t)[0], WithClock(mock), WithPollInterval(time.Second))

	_, err := c.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes"})
	require.NoError(t, err)

	done := startWait(ctx, c, "notes", entities.AppStatusActive, time.Hour)
	b.SetStatus("notes", entities.AppStatusActive)

	res := advanceUntil(t, mock, time.Second, done)
	require.NoError(t, res.err)
	assert.True(t, res.ok)
}

func TestWaitForStatus_AlreadyThere(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	c := newClient(t, b.Targets(t)[1], WithClock(clock.NewMock()))

	_, err := c.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes"})
	require.NoError(t, err)

	ok, err := c.WaitForStatus(ctx, "notes", entities.AppStatusInstalled, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWaitForStatus_Timeout(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	mock := clock.NewMock()
	c := newClient(t, b.Targets(t)[2], WithClock(mock), WithPollInterval(time.Second))

	_, err := c.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes"})
	require.NoError(t, err)

	done := startWait(ctx, c, "notes", entities.AppStatusActive, 5*time.Second)
	res := advanceUntil(t, mock, time.Second, done)
	require.NoError(t, res.err)
	assert.False(t, res.ok)
	assert.Greater(t, b.Calls(entities.CapabilityApps, wireformat.OpGet), 1)
}

func TestWaitForStatus_PollErrorsAreRetried(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	mock := clock.NewMock()
	c := newClient(t, b.Targets(t)[0], WithClock(mock), WithPollInterval(time.Second))

	b.Fail(entities.CapabilityApps, wireformat.OpGet, stdErrors.New("registry busy"))
	done := startWait(ctx, c, "notes", entities.AppStatusActive, 3*time.Second)

	res := advanceUntil(t, mock, time.Second, done)
	require.NoError(t, res.err)
	assert.False(t, res.ok)
}

func TestWaitForStatus_ContextCancelled(t *testing.T) {
	b := hosttest.NewBackend()
	c := newClient(t, b.Targets(t)[0], WithClock(clock.NewMock()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.WaitForStatus(ctx, "notes", entities.AppStatusActive, time.Minute)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWithFallback_ForcedProxyMissing(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)

	c, err := NewWithFallback(context.Background(),
		WithMode(entities.ModeProxy),
		WithHost(b.Targets(t)[2].Host),
		WithBridgeAddress(host, port),
	)
	require.NoError(t, err)
	assert.True(t, c.IsRemote())
}
