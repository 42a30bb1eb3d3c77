package tools

import (
	"autopilot/internal/console"
	"autopilot/internal/workspace"
)

// Options configures the default tool set.
type Options struct {
	Workspace   *workspace.Workspace
	Interactor  console.Interactor
	ListLimit   int
	CommandTail int
}

// DefaultTools returns the full tool set in catalog order.
func DefaultTools(opts Options) []Tool {
	ws := opts.Workspace
	listLimit := opts.ListLimit
	if listLimit <= 0 {
		listLimit = workspace.DefaultListLimit
	}
	return []Tool{
		ListFilesTool{ws: ws, limit: listLimit},
		ReadFileTool{ws: ws},
		WriteFileTool{ws: ws},
		AppendFileTool{ws: ws},
		MoveFileTool{ws: ws},
		CreateDirTool{ws: ws},
		CopyFileTool{ws: ws},
		DeleteFileTool{ws: ws},
		AskClarificationTool{gate: opts.Interactor},
		ProjectFinishedTool{},
		NewRunCommandTool(ws, opts.Interactor, opts.CommandTail),
	}
}
