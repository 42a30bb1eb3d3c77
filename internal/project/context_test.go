package project

import (
	"strings"
	"testing"

	"autopilot/internal/workspace"

	"github.com/spf13/afero"
)

func memWorkspace(t *testing.T, files map[string]string) *workspace.Workspace {
	t.Helper()
	ws := workspace.New("/project", afero.NewMemMapFs())
	for name, content := range files {
		if err := ws.Write(name, content); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return ws
}

func TestSummarizeEmptyProject(t *testing.T) {
	s := Summarize(memWorkspace(t, nil), 0)
	if !s.Empty() {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}

func TestSummarizeDetectsManifests(t *testing.T) {
	ws := memWorkspace(t, map[string]string{
		"go.mod":           "module example.com/demo\n\ngo 1.22",
		"package.json":     `{"name":"demo","scripts":{"test":"jest"},"author":"someone"}`,
		".env.example":     "API_KEY=changeme",
		"cmd/demo/main.go": "package main",
	})
	s := Summarize(ws, 0)
	if s.Empty() {
		t.Fatalf("expected summary")
	}
	out := s.String()
	for _, want := range []string{"Key files: .env.example, go.mod, package.json", "Directories: cmd/", "module example.com/demo", `"test": "jest"`, "Warning: .env.example exists"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "author") || strings.Contains(out, "changeme") {
		t.Fatalf("unexpected content leaked:\n%s", out)
	}
}

func TestSummarizeRespectsByteBudget(t *testing.T) {
	ws := memWorkspace(t, map[string]string{
		"README.md": strings.Repeat("x", 100),
		"Makefile":  "all:\n\tgo build",
	})
	s := Summarize(ws, 50)
	if s.Bytes > 50 {
		t.Fatalf("budget exceeded: %d", s.Bytes)
	}
	if len(s.Snippets) != 1 || !s.Snippets[0].Truncated {
		t.Fatalf("expected a single truncated snippet, got %+v", s.Snippets)
	}
}

func TestIsDenylisted(t *testing.T) {
	cases := map[string]bool{
		".env":                  true,
		"config/.env.local":     true,
		"certs/server.pem":      true,
		"id_rsa.pub":            true,
		"home/.aws/credentials": true,
		"main.go":               false,
		"README.md":             false,
	}
	for p, want := range cases {
		if got := IsDenylisted(p); got != want {
			t.Fatalf("IsDenylisted(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestSummarizeCapsLargeFiles(t *testing.T) {
	ws := memWorkspace(t, map[string]string{
		"README.md": strings.Repeat("x", MaxFileBytes*2),
	})
	s := Summarize(ws, MaxFileBytes*4)
	if len(s.Snippets) != 1 {
		t.Fatalf("expected one snippet, got %+v", s.Snippets)
	}
	if got := len(s.Snippets[0].Text); got > MaxFileBytes {
		t.Fatalf("expected at most %d bytes read, got %d", MaxFileBytes, got)
	}
	if !s.Snippets[0].Truncated {
		t.Fatalf("expected snippet marked truncated")
	}
}
