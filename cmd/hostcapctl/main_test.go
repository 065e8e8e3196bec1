package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/apps"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/hosttest"
	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend *hosttest.Backend
	host    string
	port    int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := hosttest.NewBackend()
	host, port := b.StartServer(t)
	return &harness{backend: b, host: host, port: port}
}

// run executes hostcapctl against the harness bridge with no host markers.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	global := []string{"--host", h.host, "--port", strconv.Itoa(h.port)}
	cmd := newRootCmd(&app{hostCtx: detect.Static{}})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(global, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestDetect(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "detect")
	require.NoError(t, err)
	got := decode[map[string]any](t, out)
	assert.Equal(t, "remote-bridge", got["mode"])
	assert.Equal(t, false, got["forced"])
	assert.Equal(t, false, got["native"])

	out, err = h.run(t, "--mode", "proxy", "detect")
	require.NoError(t, err)
	got = decode[map[string]any](t, out)
	assert.Equal(t, "hosted-proxy", got["mode"])
	assert.Equal(t, true, got["forced"])
}

func TestDetect_InvalidMode(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "--mode", "sideways", "detect")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "health")
	require.NoError(t, err)
	assert.Equal(t, "ok (remote-bridge)\n", out)

	h.backend.SetHealthy(false)
	_, err = h.run(t, "health")
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "paths")
	require.NoError(t, err)
	assert.Contains(t, out, wireformat.PathHealth)
	for _, r := range wireformat.Routes() {
		assert.Contains(t, out, r.Path)
	}
}

func TestSchema(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "schema", "fs")
	require.NoError(t, err)
	ops := decode[[]map[string]any](t, out)
	assert.Len(t, ops, len(wireformat.Operations(entities.CapabilityFS)))

	_, err = h.run(t, "schema", "printer")
	require.Error(t, err)
}

func TestStore_SetGetKeys(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "store", "set", "theme", `{"dark":true}`, "--file", "settings.json")
	require.NoError(t, err)
	_, err = h.run(t, "store", "set", "greeting", "hello", "--file", "settings.json")
	require.NoError(t, err)

	out, err := h.run(t, "store", "get", "theme", "--file", "settings.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"dark": true}, decode[map[string]any](t, out))

	out, err = h.run(t, "store", "get", "greeting", "--file", "settings.json")
	require.NoError(t, err)
	assert.Equal(t, "hello", decode[string](t, out))

	out, err = h.run(t, "store", "keys", "--file", "settings.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"theme", "greeting"}, decode[[]string](t, out))

	_, err = h.run(t, "store", "get", "missing", "--file", "settings.json")
	require.ErrorContains(t, err, `key "missing" not found`)
}

func TestStore_RequiresFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "store", "keys")
	require.Error(t, err)
}

func TestFS(t *testing.T) {
	h := newHarness(t)
	h.backend.WriteFile("/data/a.txt", []byte("alpha"))

	out, err := h.run(t, "fs", "read", "/data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", out)

	_, err = h.run(t, "fs", "write", "/data/b.txt", "beta")
	require.NoError(t, err)
	data, ok := h.backend.ReadFile("/data/b.txt")
	require.True(t, ok)
	assert.Equal(t, "beta", string(data))

	out, err = h.run(t, "fs", "ls", "/data")
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt\n")
	assert.Contains(t, out, "b.txt\n")

	out, err = h.run(t, "fs", "exists", "/data/c.txt")
	require.NoError(t, err)
	assert.False(t, decode[bool](t, out))

	_, err = h.run(t, "fs", "read", "/nope")
	require.ErrorContains(t, err, "no such file: /nope")
}

func TestSQL(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedRows("SELECT name FROM users", []entities.Row{{"name": "ada"}})

	out, err := h.run(t, "sql", "exec", "INSERT INTO users VALUES (?)", "ada", "--conn", "sqlite:app.db")
	require.NoError(t, err)
	assert.EqualValues(t, 1, decode[entities.ExecResult](t, out).RowsAffected)
	assert.Equal(t, []string{"INSERT INTO users VALUES (?)"}, h.backend.ExecLog())

	out, err = h.run(t, "sql", "select", "SELECT name FROM users", "--conn", "sqlite:app.db")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "ada"}}, decode[[]map[string]any](t, out))
}

func TestSQL_ConnectionFromConfigFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "hostcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sql:\n  connection_string: sqlite:cfg.db\n"), 0o600))

	out, err := h.run(t, "--config", path, "sql", "select", "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestApps(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seed, err := apps.New(ctx, apps.WithHost(detect.Static{}), apps.WithBridgeAddress(h.host, h.port))
	require.NoError(t, err)
	_, err = seed.Register(ctx, entities.AppManifest{ID: "notes", Name: "Notes"})
	require.NoError(t, err)

	out, err := h.run(t, "apps", "list")
	require.NoError(t, err)
	list := decode[[]entities.AppInfo](t, out)
	require.Len(t, list, 1)
	assert.Equal(t, "notes", list[0].ID)

	out, err = h.run(t, "apps", "activate", "notes")
	require.NoError(t, err)
	assert.Equal(t, entities.AppStatusActive, decode[entities.AppInfo](t, out).Status)

	out, err = h.run(t, "apps", "wait", "notes", "active", "--timeout", "1s")
	require.NoError(t, err)
	assert.True(t, decode[bool](t, out))

	out, err = h.run(t, "apps", "deactivate", "notes")
	require.NoError(t, err)
	assert.Equal(t, entities.AppStatusInactive, decode[entities.AppInfo](t, out).Status)

	out, err = h.run(t, "apps", "get", "notes")
	require.NoError(t, err)
	assert.Equal(t, entities.AppStatusInactive, decode[entities.AppInfo](t, out).Status)

	_, err = h.run(t, "apps", "get", "ghost")
	require.ErrorContains(t, err, "app not found: ghost")
}
