package render

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"autopilot/internal/events"
	"autopilot/internal/util"
	"autopilot/internal/workspace"

	"github.com/charmbracelet/glamour"
)

// Options controls what the stdout renderer prints.
type Options struct {
	Verbose      bool
	Quiet        bool
	Markdown     bool
	PreviewLines int
	// ProjectLabel prefixes paths in tool traces, e.g. "code".
	ProjectLabel string
}

// StdoutRenderer streams events to a plain text writer.
type StdoutRenderer struct {
	w        io.Writer
	mu       sync.Mutex
	opts     Options
	markdown *glamour.TermRenderer
}

// NewStdoutRenderer creates a renderer for plain text streaming. Markdown
// rendering falls back to plain text if glamour cannot be initialised.
func NewStdoutRenderer(w io.Writer, opts Options) *StdoutRenderer {
	if opts.PreviewLines <= 0 {
		opts.PreviewLines = 12
	}
	r := &StdoutRenderer{w: w, opts: opts}
	if opts.Markdown {
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(0),
		); err == nil {
			r.markdown = md
		}
	}
	return r
}

func (r *StdoutRenderer) Emit(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case events.RunStarted:
		if payload, ok := event.Payload.(events.RunStartedPayload); ok {
			if r.opts.Quiet {
				return
			}
			fmt.Fprintf(r.w, "autopilot v%s | project: %s | model: %s | run: %s\n", payload.Version, payload.ProjectRoot, payload.Model, payload.RunID)
			fmt.Fprintf(r.w, "Started: %s\n", payload.StartedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
	case events.AssistantMessage:
		if payload, ok := event.Payload.(events.AssistantMessagePayload); ok {
			r.printAssistant(payload.Content)
		}
	case events.ToolCallStarted:
		if payload, ok := event.Payload.(events.ToolCallStartedPayload); ok {
			if r.opts.Quiet {
				return
			}
			fmt.Fprintf(r.w, "FUNCTION: %s\n", r.describe(payload.ToolName, payload.Input))
		}
	case events.ToolCallFinished, events.ToolCallFailed:
		if payload, ok := event.Payload.(events.ToolCallFinishedPayload); ok {
			if r.opts.Quiet {
				return
			}
			if payload.Status == "error" {
				fmt.Fprintln(r.w, payload.Output)
			}
			if !r.opts.Verbose {
				return
			}
			trunc := ""
			if payload.Truncated {
				trunc = ", truncated"
			}
			fmt.Fprintf(r.w, "tool: %s %s (%dms, %d lines, %d bytes%s)\n", payload.ToolName, shortStatus(payload.Status), payload.DurationMs, payload.LineCount, payload.ByteCount, trunc)
			preview := util.Preview(payload.Output, r.opts.PreviewLines, 2000)
			if preview != "" {
				fmt.Fprintln(r.w, "preview:")
				for _, line := range strings.Split(preview, "\n") {
					fmt.Fprintf(r.w, "  %s\n", line)
				}
			}
		}
	case events.RunFinished:
		if payload, ok := event.Payload.(events.RunFinishedPayload); ok {
			if r.opts.Quiet {
				return
			}
			fmt.Fprintf(r.w, "Run %s after %d steps\n", payload.Status, payload.StepsUsed)
		}
	case events.RunError:
		if payload, ok := event.Payload.(events.RunErrorPayload); ok {
			fmt.Fprintf(r.w, "\nError: %s\n", payload.Message)
		}
	}
}

func (r *StdoutRenderer) Close() error {
	return nil
}

func (r *StdoutRenderer) printAssistant(content string) {
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(content); err == nil {
			fmt.Fprint(r.w, rendered)
			return
		}
	}
	fmt.Fprintf(r.w, "autopilot: %s\n", content)
}

// describe renders a one-line trace of a tool call. File contents are
// never echoed.
func (r *StdoutRenderer) describe(name string, input map[string]string) string {
	switch name {
	case "write_file":
		return fmt.Sprintf("Writing to file %s...", r.label(input["filename"]))
	case "append_file":
		return fmt.Sprintf("Appending to file %s...", r.label(input["filename"]))
	case "read_file":
		return fmt.Sprintf("Reading file %s...", r.label(input["filename"]))
	case "create_dir":
		return fmt.Sprintf("Creating directory %s", r.label(input["directory"]))
	case "move_file":
		return fmt.Sprintf("Move %s to %s...", r.label(input["source"]), r.label(input["destination"]))
	case "copy_file":
		return fmt.Sprintf("Copy %s to %s...", r.label(input["source"]), r.label(input["destination"]))
	case "delete_file":
		return fmt.Sprintf("Deleting file %s", r.label(input["filename"]))
	case "list_files":
		return fmt.Sprintf("Listing files in %s", r.label(""))
	case "run_cmd":
		return "Run a command"
	case "ask_clarification":
		return "Asking for clarification"
	case "project_finished":
		return "Project finished"
	}
	var keys []string
	for key := range input {
		if key != "content" {
			keys = append(keys, key+"="+input[key])
		}
	}
	sort.Strings(keys)
	return strings.TrimSpace(name + " " + strings.Join(keys, " "))
}

func (r *StdoutRenderer) label(p string) string {
	base := r.opts.ProjectLabel
	if base == "" {
		base = "."
	}
	clean := workspace.Sanitize(p)
	if clean == "" {
		return base + "/"
	}
	return path.Join(base, clean)
}

func shortStatus(status string) string {
	switch status {
	case "success":
		return "ok"
	case "error":
		return "err"
	}
	return status
}
