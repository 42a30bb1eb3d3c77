package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileToolStrings(t *testing.T) {
	reg, ws := newTestRegistry(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		tool string
		args Args
		want string
	}{
		{"write", "write_file", Args{"filename": "src/main.go", "content": "package main"}, "File src/main.go written successfully"},
		{"write traversal", "write_file", Args{"filename": "../../x.txt", "content": "x"}, "File x.txt written successfully"},
		{"read", "read_file", Args{"filename": "src/main.go"}, "The contents of 'src/main.go':\npackage main\n"},
		{"read missing", "read_file", Args{"filename": "nope.txt"}, "File nope.txt does not exist"},
		{"read directory", "read_file", Args{"filename": "src"}, "ERROR: Unable to read file src"},
		{"append", "append_file", Args{"filename": "log.txt", "content": "a"}, "File log.txt appended successfully"},
		{"mkdir", "create_dir", Args{"directory": "d"}, "Directory d created!"},
		{"mkdir again", "create_dir", Args{"directory": "d"}, "ERROR: Directory exists"},
		{"mkdir nested", "create_dir", Args{"directory": "x/y/z"}, "ERROR: Unable to create directory x/y/z"},
		{"copy", "copy_file", Args{"source": "src/main.go", "destination": "backup/main.go"}, "File src/main.go copied to backup/main.go"},
		{"copy missing", "copy_file", Args{"source": "nope", "destination": "other"}, "Unable to copy file."},
		{"copy dir onto dir", "copy_file", Args{"source": "src", "destination": "d"}, "ERROR: Destination folder already exists."},
		{"move", "move_file", Args{"source": "backup/main.go", "destination": "x/y.txt"}, "Moved backup/main.go to x/y.txt"},
		{"move dir onto dir", "move_file", Args{"source": "src", "destination": "d"}, "ERROR: Destination folder already exists."},
		{"move missing", "move_file", Args{"source": "nope", "destination": "z"}, "Unable to move file."},
		{"delete missing", "delete_file", Args{"filename": "missing.txt"}, "ERROR: File missing.txt does not exist"},
		{"delete dir", "delete_file", Args{"filename": "x"}, "File x successfully deleted"},
		{"delete root", "delete_file", Args{"filename": ".."}, "ERROR: Unable to remove file."},
		{"finished", "project_finished", Args{"finished": "finished"}, FinishedSignal},
	}
	for _, tc := range cases {
		if got := reg.Dispatch(ctx, tc.tool, tc.args); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}

	if _, err := os.Stat(filepath.Join(ws.Root(), "x")); !os.IsNotExist(err) {
		t.Fatalf("expected x removed recursively, got %v", err)
	}
	if _, err := os.Stat(ws.Root()); err != nil {
		t.Fatalf("project root must survive: %v", err)
	}
}

func TestAppendTwiceThroughTools(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()
	reg.Dispatch(ctx, "append_file", Args{"filename": "new/f.txt", "content": "a"})
	reg.Dispatch(ctx, "append_file", Args{"filename": "new/f.txt", "content": "b"})
	if got := reg.Dispatch(ctx, "read_file", Args{"filename": "new/f.txt"}); got != "The contents of 'new/f.txt':\nab" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestListFilesTool(t *testing.T) {
	reg, ws := newTestRegistry(t, nil)
	for i := 0; i < 3; i++ {
		if err := ws.Write(fmt.Sprintf("deep/f%d.txt", i), "x"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := ws.Write("top.txt", "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := reg.Dispatch(context.Background(), "list_files", Args{"list": "list"})
	lines := strings.Split(out, "\n")
	if lines[0] != "List of files in the project:" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 || lines[1] != "top.txt" || lines[2] != "deep/f0.txt" {
		t.Fatalf("unexpected listing %q", out)
	}
}

func TestListFilesToolLimit(t *testing.T) {
	reg, ws := newTestRegistry(t, nil)
	for i := 0; i < 30; i++ {
		if err := ws.Write(fmt.Sprintf("f%02d.txt", i), "x"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	out := reg.Dispatch(context.Background(), "list_files", Args{"list": "list"})
	if n := strings.Count(out, "\n"); n != 20 {
		t.Fatalf("expected 20 files, got %d", n)
	}
}

func TestAskClarification(t *testing.T) {
	reg, _ := newTestRegistry(t, consoleAnswers("Use SQLite"))
	out := reg.Dispatch(context.Background(), "ask_clarification", Args{"question": "Which DB?"})
	if out != "Use SQLite" {
		t.Fatalf("unexpected answer %q", out)
	}
}
