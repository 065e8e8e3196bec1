package sdksql

import (
	"context"
	stdErrors "errors"
	"net"
	"strconv"
	"testing"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/reglet-dev/hostcap/internal/hosttest"
	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dsn = "sqlite:test.db"

func newClient(t *testing.T, target hosttest.Target, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithConnectionString(dsn),
		WithHost(target.Host),
		WithBridgeAddress(target.BridgeHost, target.BridgePort),
	}
	c, err := New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestOperations_AllModes(t *testing.T) {
	ctx := context.Background()

	for i, mode := range []entities.ExecutionMode{entities.ModeNative, entities.ModeProxy, entities.ModeRemote} {
		t.Run(string(mode), func(t *testing.T) {
			b := hosttest.NewBackend()
			b.SeedRows("SELECT id, name FROM users", []entities.Row{
				{"id": 1, "name": "ada"},
				{"id": 2, "name": "grace"},
			})
			c := newClient(t, b.Targets(t)[i])
			require.Equal(t, mode, c.Mode())
			require.NotEmpty(t, c.ConnectionID())

			res, err := c.Execute(ctx, "INSERT INTO users (name) VALUES (?)", "linus")
			require.NoError(t, err)
			assert.Equal(t, entities.ExecResult{RowsAffected: 1, LastInsertID: 1}, res)
			assert.Equal(t, []string{"INSERT INTO users (name) VALUES (?)"}, b.ExecLog())

			rows, err := c.Select(ctx, "SELECT id, name FROM users")
			require.NoError(t, err)
			assert.Equal(t, []entities.Row{
				{"id": float64(1), "name": "ada"},
				{"id": float64(2), "name": "grace"},
			}, rows)

			rows, err = c.Select(ctx, "SELECT * FROM empty")
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)

			ids, err := c.Connections(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{c.ConnectionID()}, ids)

			require.NoError(t, c.Close(ctx))
			ids, err = c.Connections(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids)

			_, err = c.Execute(ctx, "DELETE FROM users")
			require.Error(t, err)
			assert.Equal(t, "connection not found: "+c.ConnectionID(), err.Error())
		})
	}
}

func TestLoad_ReusesConnection(t *testing.T) {
	b := hosttest.NewBackend()
	var ids []string
	for _, target := range b.Targets(t) {
		ids = append(ids, newClient(t, target).ConnectionID())
	}
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[0], ids[2])
}

func TestSelect_IdenticalAcrossModes(t *testing.T) {
	ctx := context.Background()
	b := hosttest.NewBackend()
	b.SeedRows("SELECT id, tags FROM notes", []entities.Row{
		{"id": 1, "tags": []any{"a", "b"}},
		{"id": 2, "tags": nil},
	})

	var results [][]entities.Row
	for _, target := range b.Targets(t) {
		c := newClient(t, target)
		first, err := c.Select(ctx, "SELECT id, tags FROM notes")
		require.NoError(t, err)
		second, err := c.Select(ctx, "SELECT id, tags FROM notes")
		require.NoError(t, err)
		assert.Equal(t, first, second, "%s: repeated select", target.Mode)
		results = append(results, first)
	}
	assert.Equal(t, results[0], results[1], "native vs proxy")
	assert.Equal(t, results[0], results[2], "native vs remote")
	assert.Empty(t, b.ExecLog(), "selects do not execute")
}

func TestExecute_ErrorMessageIdenticalAcrossModes(t *testing.T) {
	b := hosttest.NewBackend()
	for _, target := range b.Targets(t) {
		t.Run(string(target.Mode), func(t *testing.T) {
			c := newClient(t, target)
			_, err := c.Execute(context.Background(), "FAIL TABLE")
			require.Error(t, err)
			assert.Equal(t, "syntax error near FAIL", err.Error())
		})
	}
}

func TestExecute_NativeErrorIsOperationError(t *testing.T) {
	b := hosttest.NewBackend()
	c := newClient(t, b.Targets(t)[0])

	_, err := c.Execute(context.Background(), "FAIL")
	var opErr *errors.OperationError
	require.True(t, stdErrors.As(err, &opErr))
	assert.Equal(t, entities.ModeNative, opErr.Mode)
}

func TestValidation(t *testing.T) {
	_, err := New(context.Background(), WithHost(detect.Static{}))
	var ve *errors.ValidationError
	require.True(t, stdErrors.As(err, &ve))
	assert.Equal(t, "ConnectionString", ve.Field)

	b := hosttest.NewBackend()
	c := newClient(t, b.Targets(t)[2])
	_, err = c.Select(context.Background(), "")
	require.True(t, stdErrors.As(err, &ve))
	assert.Equal(t, "Query", ve.Field)
	assert.Zero(t, b.Calls(entities.CapabilitySQL, wireformat.OpSelect))
}

func TestNew_LoadFailure(t *testing.T) {
	b := hosttest.NewBackend()
	b.Fail(entities.CapabilitySQL, wireformat.OpLoad, stdErrors.New("database is locked"))

	_, err := New(context.Background(),
		WithConnectionString(dsn),
		WithHost(detect.Static{Native: b.NativeHost()}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Contains(t, err.Error(), "native")
}

func TestNewWithFallback_ProxyLoadFailsThenRemote(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	broken := hosttest.NewBackend()
	broken.Fail(entities.CapabilitySQL, wireformat.OpLoad, stdErrors.New("proxy down"))

	c, err := NewWithFallback(context.Background(),
		WithConnectionString(dsn),
		WithHost(detect.Static{Host: broken.Container()}),
		WithBridgeAddress(host, port),
	)
	require.NoError(t, err)
	assert.True(t, c.IsRemote())
	assert.Equal(t, 1, b.Calls(entities.CapabilitySQL, wireformat.OpLoad))
}

func TestNew_UnreachableBridgeDefersLoad(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	ctx := context.Background()
	c, err := New(ctx, WithConnectionString(dsn), WithRemoteTarget("127.0.0.1", port))
	require.NoError(t, err)
	assert.Equal(t, entities.ProbeUnreachable, c.Probe())
	assert.Empty(t, c.ConnectionID())

	_, err = c.Select(ctx, "")
	var ve *errors.ValidationError
	require.True(t, stdErrors.As(err, &ve), "validation runs before the deferred load")

	_, err = c.Execute(ctx, "DELETE FROM users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql: load connection (remote-bridge)")
	assert.Contains(t, err.Error(), "127.0.0.1:"+strconv.Itoa(port))
}

func TestClose_NeverOpenedConnection(t *testing.T) {
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	b.SetHealthy(false)

	ctx := context.Background()
	c, err := New(ctx, WithConnectionString(dsn), WithRemoteTarget(host, port))
	require.NoError(t, err)
	require.Equal(t, entities.ProbeUnreachable, c.Probe())

	require.NoError(t, c.Close(ctx))
	assert.Zero(t, b.Calls(entities.CapabilitySQL, wireformat.OpLoad), "closing must not open a connection")
	assert.Zero(t, b.Calls(entities.CapabilitySQL, wireformat.OpClose))
}
