// Package config loads the client configuration: network target of the remote
// bridge, forced mode, verbosity, and per-capability parameters. Files are YAML or
// TOML (chosen by extension); HOSTCAP_* environment variables override them.
//
// The package also provides typed accessors for loosely typed maps (see Map).
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/reglet-dev/hostcap/application/validation"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost          = "localhost"
	DefaultPort          = 1420
	DefaultHealthTimeout = 5 * time.Second
)

// Environment variables that override file values.
const (
	EnvHost    = "HOSTCAP_HOST"
	EnvPort    = "HOSTCAP_PORT"
	EnvMode    = "HOSTCAP_MODE"
	EnvVerbose = "HOSTCAP_VERBOSE"
)

// Config is the orchestrator configuration.
type Config struct {
	Host          string        `yaml:"host" toml:"host" json:"host" validate:"required,hostname|ip"`
	Mode          string        `yaml:"mode" toml:"mode" json:"mode,omitempty"`
	Store         StoreConfig   `yaml:"store" toml:"store" json:"store"`
	SQL           SQLConfig     `yaml:"sql" toml:"sql" json:"sql"`
	HealthTimeout time.Duration `yaml:"health_timeout" toml:"health_timeout" json:"health_timeout" validate:"gte=0"`
	Port          int           `yaml:"port" toml:"port" json:"port" validate:"min=1,max=65535"`
	Verbose       bool          `yaml:"verbose" toml:"verbose" json:"verbose"`
}

// SQLConfig holds relational-data parameters.
type SQLConfig struct {
	ConnectionString string `yaml:"connection_string" toml:"connection_string" json:"connection_string,omitempty"`
}

// StoreConfig holds key-value-store parameters.
type StoreConfig struct {
	Filename string `yaml:"filename" toml:"filename" json:"filename,omitempty"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		HealthTimeout: DefaultHealthTimeout,
	}
}

// Load reads path on top of Default, applies environment overrides and validates the
// result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes a YAML, TOML or JSON file into c.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return c.Decode(filepath.Ext(path), data)
}

// Decode decodes data in the format named by ext (".yaml", ".yml", ".toml", ".json").
func (c *Config) Decode(ext string, data []byte) error {
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		_, err = toml.Decode(string(data), c)
	case ".json":
		err = json.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s config: %w", strings.TrimPrefix(ext, "."), err)
	}
	return nil
}

// ApplyEnv overrides fields from the HOSTCAP_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &errors.ValidationError{Field: EnvPort, Err: err}
		}
		c.Port = port
	}
	if v, ok := lookup(EnvMode); ok {
		c.Mode = v
	}
	if v, ok := lookup(EnvVerbose); ok && v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return &errors.ValidationError{Field: EnvVerbose, Err: err}
		}
		c.Verbose = verbose
	}
	return nil
}

// Validate checks field constraints and the mode name.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if _, err := entities.ParseMode(c.Mode); err != nil {
		return &errors.ValidationError{Field: "Mode", Err: err}
	}
	return nil
}

// ExecutionMode returns the forced mode, or "" when detection should decide.
func (c *Config) ExecutionMode() entities.ExecutionMode {
	mode, _ := entities.ParseMode(c.Mode)
	return mode
}

// Target returns "host:port" of the remote bridge.
func (c *Config) Target() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
