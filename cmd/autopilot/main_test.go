package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autopilot/internal/console"

	"gopkg.in/yaml.v3"
)

func scriptedConsole(answers ...string) interactorFactory {
	return func() (console.Interactor, func() error, error) {
		return console.NewScripted(answers...), func() error { return nil }, nil
	}
}

func runCLI(t *testing.T, factory interactorFactory, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AUTOPILOT_CONFIG_DIR", t.TempDir())
	cmd := newRootCmd(factory)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWithMockLLM(t *testing.T) {
	t.Setenv("AUTOPILOT_MOCK_LLM", "1")
	project := filepath.Join(t.TempDir(), "code")
	audit := filepath.Join(t.TempDir(), "audit.db")

	out, err := runCLI(t, scriptedConsole(), "--project-dir", project, "--audit-db", audit, "--no-markdown", "say", "hello")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"FUNCTION: Listing files in", "FUNCTION: Writing to file", "Run finished after 3 steps"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	data, err := os.ReadFile(filepath.Join(project, "hello.txt"))
	if err != nil || string(data) != "Hello from autopilot\n" {
		t.Fatalf("expected hello.txt, got %q %v", data, err)
	}

	history, err := runCLI(t, scriptedConsole(), "history", "--audit-db", audit, "--limit", "10")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(history, "project_finished") || !strings.Contains(history, "write_file") {
		t.Fatalf("unexpected history:\n%s", history)
	}
}

func TestRunAsksForGoal(t *testing.T) {
	t.Setenv("AUTOPILOT_MOCK_LLM", "1")
	project := filepath.Join(t.TempDir(), "code")
	if _, err := runCLI(t, scriptedConsole("build a greeter"), "--project-dir", project, "--quiet", "--no-markdown"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, "hello.txt")); err != nil {
		t.Fatalf("expected run to proceed after goal prompt: %v", err)
	}
}

func TestRunRequiresAPIKey(t *testing.T) {
	t.Setenv("AUTOPILOT_MOCK_LLM", "")
	t.Setenv("AUTOPILOT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	_, err := runCLI(t, scriptedConsole(), "goal")
	if !errors.Is(err, errMissingAPIKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestToolsCatalogFormats(t *testing.T) {
	out, err := runCLI(t, scriptedConsole(), "tools", "--format", "json")
	if err != nil {
		t.Fatalf("tools json: %v", err)
	}
	var catalog []map[string]any
	if err := json.Unmarshal([]byte(out), &catalog); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(catalog) != 11 || catalog[0]["name"] != "list_files" || catalog[10]["name"] != "run_cmd" {
		t.Fatalf("unexpected catalog %v", catalog)
	}

	out, err = runCLI(t, scriptedConsole(), "tools", "--format", "yaml")
	if err != nil {
		t.Fatalf("tools yaml: %v", err)
	}
	var fromYAML []map[string]any
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(fromYAML) != 11 {
		t.Fatalf("expected 11 tools, got %d", len(fromYAML))
	}

	if _, err := runCLI(t, scriptedConsole(), "tools", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCallDispatchesTool(t *testing.T) {
	project := filepath.Join(t.TempDir(), "code")
	out, err := runCLI(t, scriptedConsole(), "call", "write_file", `{"filename":"../a.txt","content":"hi"}`, "--project-dir", project)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if strings.TrimSpace(out) != "File a.txt written successfully" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, scriptedConsole(), "call", "teleport", "--project-dir", project)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if strings.TrimSpace(out) != `ERROR: Unknown tool "teleport"` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHistoryRequiresAuditDB(t *testing.T) {
	t.Setenv("AUTOPILOT_AUDIT_DB", "")
	if _, err := runCLI(t, scriptedConsole(), "history"); err == nil {
		t.Fatalf("expected error without audit db")
	}
}
