package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"autopilot/internal/console"
	"autopilot/internal/util"
	"autopilot/internal/workspace"

	"github.com/kballard/go-shellquote"
)

const (
	// DefaultCommandTail is how many trailing characters of command output
	// are returned to the model.
	DefaultCommandTail = 245
	// CommandRefusal is returned when the operator declines a command.
	CommandRefusal = "I don't want you to run that command"

	confirmYes = "YES"
	confirmNo  = "NO"
)

// RunCommandTool runs a shell command inside the project after the
// operator approves it.
type RunCommandTool struct {
	ws    *workspace.Workspace
	gate  console.Interactor
	tail  int
	shell []string
}

// NewRunCommandTool constructs the command tool. tail <= 0 selects
// DefaultCommandTail.
func NewRunCommandTool(ws *workspace.Workspace, gate console.Interactor, tail int) *RunCommandTool {
	if tail <= 0 {
		tail = DefaultCommandTail
	}
	return &RunCommandTool{ws: ws, gate: gate, tail: tail, shell: defaultShell()}
}

func (t *RunCommandTool) Name() string { return "run_cmd" }

func (t *RunCommandTool) Description() string { return "Run a terminal command. Returns the output." }

func (t *RunCommandTool) Params() []Param {
	return []Param{
		{Name: "base_dir", Description: "The directory to change into before running command"},
		{Name: "command", Description: "The command to run"},
		{Name: "reason", Description: "A reason for why the command should be run"},
	}
}

type commandArgs struct {
	BaseDir string `arg:"base_dir"`
	Command string `arg:"command"`
	Reason  string `arg:"reason"`
}

func (t *RunCommandTool) Execute(ctx context.Context, args Args) (string, error) {
	var in commandArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if _, err := t.ws.Resolve(in.BaseDir); err != nil {
		return "", fail(err, "ERROR: Invalid base directory %s", in.BaseDir)
	}
	script := t.script(workspace.Sanitize(in.BaseDir), in.Command)

	prompt := fmt.Sprintf("## The model wants to run a command! ##\nCommand: `%s`\nReason: `%s`\nDo you want to run this command?", script, in.Reason)
	answer, err := t.gate.Confirm(prompt, []string{confirmYes, confirmNo})
	if err != nil {
		return "", err
	}
	if answer != confirmYes {
		return CommandRefusal, nil
	}

	output := t.run(ctx, script)
	tail, _ := util.TailRunes(output, t.tail)
	return fmt.Sprintf("Result from command (last %d chars):\n%s", t.tail, tail), nil
}

// script changes into baseDir, relative to the project root, before running
// command. A failed cd prevents the command from running outside baseDir.
func (t *RunCommandTool) script(baseDir, command string) string {
	if baseDir == "" {
		return command
	}
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("cd /d \"%s\" && %s", baseDir, command)
	}
	return fmt.Sprintf("cd %s && %s", shellquote.Join(baseDir), command)
}

// run executes script synchronously and returns stdout followed by stderr.
// A non-zero exit status is not an error here; the output speaks for itself.
func (t *RunCommandTool) run(ctx context.Context, script string) string {
	cmd := exec.CommandContext(ctx, t.shell[0], append(t.shell[1:], script)...)
	cmd.Dir = t.ws.Root()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	output := stdout.String() + stderr.String()
	if err != nil {
		if exitErr := (&exec.ExitError{}); !errors.As(err, &exitErr) {
			output += err.Error()
		}
	}
	return output
}

func defaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}
