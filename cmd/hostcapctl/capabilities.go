package main

import (
	"fmt"
	"time"

	"github.com/reglet-dev/hostcap/apps"
	"github.com/reglet-dev/hostcap/domain/entities"
	sdkfs "github.com/reglet-dev/hostcap/fs"
	sdksql "github.com/reglet-dev/hostcap/sql"
	"github.com/reglet-dev/hostcap/store"
	"github.com/spf13/cobra"
)

func storeCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{Use: "store", Short: "Key-value store operations"}
	cmd.PersistentFlags().StringVar(&file, "file", "", "store file (default from config)")

	open := func(cmd *cobra.Command) (*store.Client, error) {
		cfg, err := a.config(cmd)
		if err != nil {
			return nil, err
		}
		if file != "" {
			cfg.Store.Filename = file
		}
		o, err := a.start(cmd, cfg, entities.CapabilityStore)
		if err != nil {
			return nil, err
		}
		c, err := o.Store()
		return c, err
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "get <key>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd)
				if err != nil {
					return err
				}
				v, found, err := s.Get(ctxOf(cmd), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("key %q not found", args[0])
				}
				return printJSON(cmd, v)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a key (value parsed as JSON when possible) and save",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd)
				if err != nil {
					return err
				}
				if err := s.Set(ctxOf(cmd), args[0], parseValue(args[1])); err != nil {
					return err
				}
				return s.Save(ctxOf(cmd))
			},
		},
		&cobra.Command{
			Use:  "keys",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := open(cmd)
				if err != nil {
					return err
				}
				keys, err := s.Keys(ctxOf(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd, keys)
			},
		},
	)
	return cmd
}

func fsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "fs", Short: "Filesystem operations"}

	open := func(cmd *cobra.Command) (*sdkfs.Client, error) {
		cfg, err := a.config(cmd)
		if err != nil {
			return nil, err
		}
		o, err := a.start(cmd, cfg, entities.CapabilityFS)
		if err != nil {
			return nil, err
		}
		c, err := o.FS()
		return c, err
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "read <path>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := open(cmd)
				if err != nil {
					return err
				}
				text, err := f.ReadTextFile(ctxOf(cmd), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			},
		},
		&cobra.Command{
			Use:  "write <path> <contents>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := open(cmd)
				if err != nil {
					return err
				}
				return f.WriteTextFile(ctxOf(cmd), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:  "ls <path>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := open(cmd)
				if err != nil {
					return err
				}
				entries, err := f.ReadDir(ctxOf(cmd), args[0])
				if err != nil {
					return err
				}
				for _, e := range entries {
					name := e.Name
					if e.IsDir {
						name += "/"
					}
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:  "exists <path>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := open(cmd)
				if err != nil {
					return err
				}
				ok, err := f.Exists(ctxOf(cmd), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, ok)
			},
		},
	)
	return cmd
}

func sqlCmd(a *app) *cobra.Command {
	var conn string
	cmd := &cobra.Command{Use: "sql", Short: "Relational-data operations"}
	cmd.PersistentFlags().StringVar(&conn, "conn", "", "connection string (default from config)")

	open := func(cmd *cobra.Command) (*sdksql.Client, error) {
		cfg, err := a.config(cmd)
		if err != nil {
			return nil, err
		}
		if conn != "" {
			cfg.SQL.ConnectionString = conn
		}
		o, err := a.start(cmd, cfg, entities.CapabilitySQL)
		if err != nil {
			return nil, err
		}
		c, err := o.SQL()
		return c, err
	}
	params := func(args []string) []any {
		out := make([]any, len(args))
		for i, s := range args {
			out[i] = parseValue(s)
		}
		return out
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "exec <query> [params...]",
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := open(cmd)
				if err != nil {
					return err
				}
				res, err := db.Execute(ctxOf(cmd), args[0], params(args[1:])...)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			},
		},
		&cobra.Command{
			Use:  "select <query> [params...]",
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := open(cmd)
				if err != nil {
					return err
				}
				rows, err := db.Select(ctxOf(cmd), args[0], params(args[1:])...)
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			},
		},
	)
	return cmd
}

func appsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "apps", Short: "Application registry operations"}

	open := func(cmd *cobra.Command) (*apps.Client, error) {
		cfg, err := a.config(cmd)
		if err != nil {
			return nil, err
		}
		o, err := a.start(cmd, cfg, entities.CapabilityApps)
		if err != nil {
			return nil, err
		}
		c, err := o.AppRegistry()
		return c, err
	}
	byID := func(use string, fn func(h *apps.Client, cmd *cobra.Command, id string) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:  use + " <app-id>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := open(cmd)
				if err != nil {
					return err
				}
				v, err := fn(h, cmd, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, v)
			},
		}
	}

	var timeout time.Duration
	wait := &cobra.Command{
		Use:   "wait <app-id> <status>",
		Short: "Wait until an application reaches a status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := open(cmd)
			if err != nil {
				return err
			}
			ok, err := h.WaitForStatus(ctxOf(cmd), args[0], entities.AppStatus(args[1]), timeout)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s did not reach %q within %s", args[0], args[1], timeout)
			}
			return printJSON(cmd, true)
		},
	}
	wait.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait")

	cmd.AddCommand(
		&cobra.Command{
			Use:  "list",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				h, err := open(cmd)
				if err != nil {
					return err
				}
				list, err := h.List(ctxOf(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd, list)
			},
		},
		byID("get", func(h *apps.Client, cmd *cobra.Command, id string) (any, error) {
			return h.Get(ctxOf(cmd), id)
		}),
		byID("activate", func(h *apps.Client, cmd *cobra.Command, id string) (any, error) {
			return h.Activate(ctxOf(cmd), id)
		}),
		byID("deactivate", func(h *apps.Client, cmd *cobra.Command, id string) (any, error) {
			return h.Deactivate(ctxOf(cmd), id)
		}),
		wait,
	)
	return cmd
}
