package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"autopilot/internal/audit"
	"autopilot/internal/config"
	"autopilot/internal/console"
	"autopilot/internal/tools"
	"autopilot/internal/workspace"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newToolsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}
			// Descriptors never touch the filesystem.
			ws := workspace.New(cfg.ProjectDir, afero.NewMemMapFs())
			registry := tools.NewRegistry(zap.NewNop(), tools.DefaultTools(tools.Options{
				Workspace:   ws,
				Interactor:  console.NewScripted(),
				ListLimit:   cfg.ToolLimits.ListMaxResults,
				CommandTail: cfg.ToolLimits.CommandTailChars,
			})...)
			catalog := registry.Catalog()

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(catalog)
			case "yaml", "yml":
				encoder := yaml.NewEncoder(out)
				encoder.SetIndent(2)
				if err := encoder.Encode(catalog); err != nil {
					return err
				}
				return encoder.Close()
			case "text", "":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, desc := range catalog {
					fmt.Fprintf(tw, "%s\t%s\n", desc.Name, desc.Description)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func newCallCmd(openConsole interactorFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Dispatch a single tool call by hand",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gate, closeGate, err := openConsole()
			if err != nil {
				return err
			}
			defer func() { _ = closeGate() }()

			env, err := newEnvironment(cfg, gate, logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			raw := "{}"
			if len(args) == 2 {
				raw = args[1]
			}
			out := env.registry.DispatchJSON(contextOrBackground(cmd.Context()), args[0], json.RawMessage(raw))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded tool calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}
			if cfg.AuditDB == "" {
				return errors.New("audit_db is not configured")
			}
			store, err := audit.Open(filepath.Clean(cfg.AuditDB))
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(contextOrBackground(cmd.Context()), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tTOOL\tMS\tRESULT")
			for _, e := range entries {
				result := strings.SplitN(e.Result, "\n", 2)[0]
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), shortID(e.RunID), e.Tool, e.DurationMs, result)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
