package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"autopilot/internal/agent"
	"autopilot/internal/audit"
	"autopilot/internal/config"
	"autopilot/internal/console"
	"autopilot/internal/events"
	"autopilot/internal/llm"
	"autopilot/internal/render"
	"autopilot/internal/tools"
	"autopilot/internal/workspace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errMissingAPIKey = errors.New("AUTOPILOT_API_KEY or OPENAI_API_KEY is required")

func main() {
	root := newRootCmd(console.NewTerminal)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errMissingAPIKey) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// interactorFactory opens the operator console. The returned func releases it.
type interactorFactory func() (console.Interactor, func() error, error)

func newRootCmd(openConsole interactorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "autopilot [goal]",
		Short:         "autopilot - let a model build a project inside a sandboxed directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}
			mockMode := os.Getenv("AUTOPILOT_MOCK_LLM") == "1"
			if cfg.APIKey == "" && !mockMode {
				return errMissingAPIKey
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

			goal := strings.TrimSpace(strings.Join(args, " "))
			if goal == "" {
				goal, err = gate.Ask("What would you like me to build?")
				if err != nil {
					return err
				}
				goal = strings.TrimSpace(goal)
				if goal == "" {
					return errors.New("a goal is required")
				}
			}

			env, err := newEnvironment(cfg, gate, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer env.Close()

			var client llm.Client
			if mockMode {
				client = llm.NewMockClient()
			} else {
				client = llm.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.HTTPRetries)
			}

			ctx, cancel := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			ag := agent.NewAgent(client, env.registry, gate, env.sink, logger, cfg, env.ws)
			result, err := ag.Run(ctx, goal)
			logger.Info("run complete",
				zap.String("run_id", result.RunID),
				zap.String("status", result.Status),
				zap.Int("steps", result.StepsUsed),
				zap.Int("tool_calls", len(result.ToolCalls)))
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("model", config.DefaultModel, "Model name")
	flags.Int("max-steps", config.DefaultMaxSteps, "Maximum model round trips")
	flags.String("project-dir", config.DefaultProjectDir, "Project directory the tools are confined to")
	flags.String("base-url", config.DefaultBaseURL, "OpenAI-compatible API base URL")
	flags.Bool("verbose", false, "Enable verbose logging and tool previews")
	flags.Bool("quiet", false, "Only print model messages and errors")
	flags.String("log-file", "", "Also write logs to a rotating file")
	flags.String("audit-db", "", "Record tool calls in a sqlite database")
	flags.Bool("no-markdown", false, "Print model messages as plain text")

	cmd.AddCommand(newToolsCmd(), newCallCmd(openConsole), newHistoryCmd())
	return cmd
}

// environment bundles the sandbox, tool registry and event sinks shared by
// the run and call commands.
type environment struct {
	ws       *workspace.Workspace
	registry *tools.Registry
	sink     events.Sink
	renderer *render.StdoutRenderer
	store    *audit.Store
}

func newEnvironment(cfg config.Config, gate console.Interactor, logger *zap.Logger, out io.Writer) (*environment, error) {
	ws, err := workspace.Open(cfg.ProjectDir)
	if err != nil {
		return nil, err
	}
	env := &environment{ws: ws}
	env.renderer = render.NewStdoutRenderer(out, render.Options{
		Verbose:      cfg.Verbose,
		Quiet:        cfg.Quiet,
		Markdown:     !cfg.NoMarkdown,
		PreviewLines: cfg.ToolLimits.PreviewMaxLines,
		ProjectLabel: cfg.ProjectDir,
	})
	sinks := []events.Sink{env.renderer}
	if cfg.AuditDB != "" {
		store, err := audit.Open(cfg.AuditDB)
		if err != nil {
			return nil, err
		}
		env.store = store
		sinks = append(sinks, audit.NewRecorder(store, "", logger))
	}
	env.sink = events.Fanout(sinks...)

	env.registry = tools.NewRegistry(logger, tools.DefaultTools(tools.Options{
		Workspace:   ws,
		Interactor:  gate,
		ListLimit:   cfg.ToolLimits.ListMaxResults,
		CommandTail: cfg.ToolLimits.CommandTailChars,
	})...)
	env.registry.SetSink(env.sink)
	return env, nil
}

func (e *environment) Close() {
	_ = e.renderer.Close()
	if e.store != nil {
		_ = e.store.Close()
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
