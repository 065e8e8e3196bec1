package config

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 1420, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HealthTimeout)
	assert.Equal(t, "localhost:1420", cfg.Target())
	assert.Equal(t, entities.ExecutionMode(""), cfg.ExecutionMode())
	require.NoError(t, cfg.Validate())
}

func TestReadFile_YAML(t *testing.T) {
	path := writeFile(t, "hostcap.yaml", `
host: bridge.internal
port: 8080
mode: remote
verbose: true
health_timeout: 2s
sql:
  connection_string: sqlite:app.db
store:
  filename: app.json
`)
	cfg := Default()
	require.NoError(t, cfg.ReadFile(path))

	assert.Equal(t, "bridge.internal", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, entities.ModeRemote, cfg.ExecutionMode())
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 2*time.Second, cfg.HealthTimeout)
	assert.Equal(t, "sqlite:app.db", cfg.SQL.ConnectionString)
	assert.Equal(t, "app.json", cfg.Store.Filename)
}

func TestReadFile_TOML(t *testing.T) {
	path := writeFile(t, "hostcap.toml", `
host = "10.0.0.5"
port = 1421
mode = "hosted-proxy"
health_timeout = "750ms"

[store]
filename = "prefs.json"
`)
	cfg := Default()
	require.NoError(t, cfg.ReadFile(path))

	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 1421, cfg.Port)
	assert.Equal(t, entities.ModeProxy, cfg.ExecutionMode())
	assert.Equal(t, 750*time.Millisecond, cfg.HealthTimeout)
	assert.Equal(t, "prefs.json", cfg.Store.Filename)
}

func TestReadFile_Errors(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.ReadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	err := cfg.ReadFile(writeFile(t, "hostcap.ini", "host=x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")

	err = cfg.ReadFile(writeFile(t, "bad.toml", "host = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse toml config")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envOf(map[string]string{
		EnvHost:    "example.com",
		EnvPort:    "9000",
		EnvMode:    "native",
		EnvVerbose: "true",
	})))
	assert.Equal(t, "example.com:9000", cfg.Target())
	assert.Equal(t, entities.ModeNative, cfg.ExecutionMode())
	assert.True(t, cfg.Verbose)

	err := Default().ApplyEnv(envOf(map[string]string{EnvPort: "lots"}))
	var ve *errors.ValidationError
	require.True(t, stdErrors.As(err, &ve))
	assert.Equal(t, EnvPort, ve.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "Port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "Port"},
		{"empty host", func(c *Config) { c.Host = "" }, "Host"},
		{"bad host", func(c *Config) { c.Host = "not a host!" }, "Host"},
		{"unknown mode", func(c *Config) { c.Mode = "teleport" }, "Mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			var ve *errors.ValidationError
			require.True(t, stdErrors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "hostcap.yml", "port: 8080\n")
	t.Setenv(EnvPort, "8181")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
}
