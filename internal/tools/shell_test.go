package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"autopilot/internal/console"
)

func consoleAnswers(answers ...string) *console.Scripted {
	return console.NewScripted(answers...)
}

func skipWithoutPosixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunCommandRefused(t *testing.T) {
	skipWithoutPosixShell(t)
	gate := consoleAnswers("NO")
	reg, ws := newTestRegistry(t, gate)
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "", "command": "touch created.txt", "reason": "test"})
	if out != CommandRefusal {
		t.Fatalf("unexpected result %q", out)
	}
	if _, err := os.Stat(filepath.Join(ws.Root(), "created.txt")); !os.IsNotExist(err) {
		t.Fatalf("refused command must not run, stat err %v", err)
	}
	if len(gate.Prompts) != 1 || !strings.Contains(gate.Prompts[0], "touch created.txt") || !strings.Contains(gate.Prompts[0], "test") {
		t.Fatalf("prompt must show command and reason, got %v", gate.Prompts)
	}
}

func TestRunCommandTail(t *testing.T) {
	skipWithoutPosixShell(t)
	reg, ws := newTestRegistry(t, consoleAnswers("yes"))
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "line-%03d\n", i)
	}
	content := b.String()
	if err := ws.Write("out.txt", content); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "", "command": "cat out.txt", "reason": "show"})
	want := "Result from command (last 245 chars):\n" + content[len(content)-245:]
	if out != want {
		t.Fatalf("unexpected result %q", out)
	}
}

func TestRunCommandCombinesStdoutThenStderr(t *testing.T) {
	skipWithoutPosixShell(t)
	reg, _ := newTestRegistry(t, consoleAnswers("YES"))
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": ".", "command": "echo err 1>&2; echo out; exit 3", "reason": "r"})
	if out != "Result from command (last 245 chars):\nout\nerr\n" {
		t.Fatalf("unexpected result %q", out)
	}
}

func TestRunCommandInBaseDir(t *testing.T) {
	skipWithoutPosixShell(t)
	reg, ws := newTestRegistry(t, consoleAnswers("YES", "YES"))
	if err := ws.Write("sub dir/marker.txt", "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "/sub dir/", "command": "ls", "reason": "r"})
	if !strings.Contains(out, "marker.txt") {
		t.Fatalf("expected listing of base dir, got %q", out)
	}

	out = reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "../..", "command": "pwd", "reason": "r"})
	if !strings.Contains(out, filepath.Base(ws.Root())) {
		t.Fatalf("traversal must stay in project root, got %q", out)
	}
}

func TestRunCommandMissingBaseDir(t *testing.T) {
	skipWithoutPosixShell(t)
	reg, ws := newTestRegistry(t, consoleAnswers("YES"))
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "nope", "command": "touch created.txt", "reason": "r"})
	if !strings.HasPrefix(out, "Result from command") || !strings.Contains(out, "nope") {
		t.Fatalf("expected shell error text, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(ws.Root(), "created.txt")); !os.IsNotExist(err) {
		t.Fatalf("command must not run after failed cd")
	}
}

func TestRunCommandClosedConsole(t *testing.T) {
	reg, _ := newTestRegistry(t, consoleAnswers())
	out := reg.Dispatch(context.Background(), "run_cmd", Args{"base_dir": "", "command": "ls", "reason": "r"})
	if !strings.HasPrefix(out, "ERROR: run_cmd failed") {
		t.Fatalf("unexpected result %q", out)
	}
}
