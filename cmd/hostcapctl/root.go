package main

import (
	"context"
	"encoding/json"

	"github.com/reglet-dev/hostcap/application/config"
	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/application/orchestrator"
	"github.com/reglet-dev/hostcap/domain/entities"
	hostlog "github.com/reglet-dev/hostcap/log"
	"github.com/spf13/cobra"
)

// app carries the global flags and the host context commands resolve against.
type app struct {
	hostCtx detect.HostContext
	cfgPath string
	host    string
	mode    string
	port    int
	verbose bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hostcapctl",
		Short:         "Call sql, store, fs and apps capabilities on any backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "config file (.yaml, .toml or .json)")
	flags.StringVar(&a.host, "host", "", "remote bridge host (default localhost)")
	flags.IntVar(&a.port, "port", 0, "remote bridge port (default 1420)")
	flags.StringVar(&a.mode, "mode", "", "force an execution mode: native, proxy or remote")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		detectCmd(a),
		healthCmd(a),
		pathsCmd(),
		schemaCmd(),
		storeCmd(a),
		fsCmd(a),
		sqlCmd(a),
		appsCmd(a),
	)
	return root
}

// config loads the config file and environment, then applies the flags.
func (a *app) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = a.host
	}
	if flags.Changed("port") {
		cfg.Port = a.port
	}
	if flags.Changed("mode") {
		cfg.Mode = a.mode
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	return cfg, cfg.Validate()
}

func (a *app) orchestrator(cmd *cobra.Command, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	logger := hostlog.New(cfg.Verbose, cmd.ErrOrStderr())
	return orchestrator.New(cfg, orchestrator.WithHost(a.hostCtx), orchestrator.WithLogger(logger))
}

// start builds an orchestrator and initializes one capability.
func (a *app) start(cmd *cobra.Command, cfg *config.Config, c entities.Capability) (*orchestrator.Orchestrator, error) {
	o, err := a.orchestrator(cmd, cfg)
	if err != nil {
		return nil, err
	}
	if err := o.InitServices(ctxOf(cmd), c); err != nil {
		return nil, err
	}
	return o, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseValue reads a command-line value as JSON, or as a plain string when it is
// not valid JSON.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
