package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/reglet-dev/hostcap/application/detect"
	"github.com/reglet-dev/hostcap/application/schema"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/spf13/cobra"
)

func detectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Print the execution mode this environment resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config(cmd)
			if err != nil {
				return err
			}
			o, err := a.orchestrator(cmd, cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"mode":      o.Mode(),
				"forced":    cfg.ExecutionMode() != "",
				"native":    detect.HasNative(a.hostCtx),
				"container": detect.HasContainer(a.hostCtx),
				"target":    o.Target(),
			})
		},
	}
}

func healthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run the connectivity pre-check of the resolved mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config(cmd)
			if err != nil {
				return err
			}
			o, err := a.orchestrator(cmd, cfg)
			if err != nil {
				return err
			}
			if err := o.Precheck(ctxOf(cmd)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", o.Mode())
			return err
		},
	}
}

func pathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the remote-bridge routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "GET\t%s\thealth\n", wireformat.PathHealth)
			for _, r := range wireformat.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Method, r.Path, wireformat.NativeFunction(r.Capability, r.Operation))
			}
			return w.Flush()
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [capability [operation]]",
		Short: "Print the JSON Schemas of the wire contract",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				ops, err := schema.Contract()
				if err != nil {
					return err
				}
				return printJSON(cmd, ops)
			}
			c, err := entities.ParseCapability(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				op, err := schema.ForOperation(c, args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd, op)
			}
			ops, err := schema.Contract(c)
			if err != nil {
				return err
			}
			return printJSON(cmd, ops)
		},
	}
}
