package project

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"autopilot/internal/util"
	"autopilot/internal/workspace"
)

// DefaultMaxBytes caps the snippet text gathered for one summary.
const DefaultMaxBytes = 8 * 1024

// MaxFileBytes bounds how much of a single key file is read.
const MaxFileBytes = 32 * 1024

// keyFiles are manifests whose presence tells the model what it is working
// on; the listed ones get a snippet of their head.
var keyFiles = []struct {
	name  string
	lines int
}{
	{"README.md", 40},
	{"go.mod", 40},
	{"package.json", 0},
	{"pyproject.toml", 40},
	{"requirements.txt", 40},
	{"Cargo.toml", 40},
	{"Makefile", 40},
	{"Dockerfile", 40},
	{"docker-compose.yml", 40},
	{"tsconfig.json", 0},
	{".env.example", 0},
}

var layoutDirs = []string{"cmd", "internal", "src", "app", "pages", "api", "tests"}

// Snippet holds the head of a key file.
type Snippet struct {
	Path      string
	Text      string
	Truncated bool
}

// Summary describes an existing project for the model's first turn.
type Summary struct {
	KeyFiles []string
	Layout   []string
	Snippets []Snippet
	Warnings []string
	Bytes    int
}

// Summarize inspects ws for well-known manifests and layout directories.
// Denylisted files are reported but never read.
func Summarize(ws *workspace.Workspace, maxBytes int) Summary {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	var s Summary
	for _, kf := range keyFiles {
		info, err := ws.Stat(kf.name)
		if err != nil || info.IsDir() {
			continue
		}
		s.KeyFiles = append(s.KeyFiles, kf.name)
		if IsDenylisted(kf.name) {
			s.Warnings = append(s.Warnings, fmt.Sprintf("%s exists but its contents are withheld.", kf.name))
			continue
		}
		content, clipped, err := ws.ReadHead(kf.name, MaxFileBytes)
		if err != nil {
			continue
		}
		if kf.name == "package.json" {
			content = filterPackageJSON(content)
		} else if kf.lines > 0 {
			content = firstLines(content, kf.lines)
		}
		s.addSnippet(kf.name, content, maxBytes, clipped)
	}
	for _, dir := range layoutDirs {
		if info, err := ws.Stat(dir); err == nil && info.IsDir() {
			s.Layout = append(s.Layout, dir+"/")
		}
	}
	return s
}

// Empty reports whether nothing worth mentioning was found.
func (s Summary) Empty() bool {
	return len(s.KeyFiles) == 0 && len(s.Layout) == 0
}

func (s *Summary) addSnippet(name, raw string, maxBytes int, clipped bool) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	remaining := maxBytes - s.Bytes
	if remaining <= 0 {
		return
	}
	text := util.RedactSecrets(raw)
	text, truncated := util.TruncateBytes(text, remaining)
	s.Bytes += len(text)
	s.Snippets = append(s.Snippets, Snippet{Path: name, Text: text, Truncated: truncated || clipped})
}

func firstLines(content string, n int) string {
	lines := strings.SplitN(content, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func filterPackageJSON(content string) string {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return content
	}
	filtered := map[string]any{}
	for _, key := range []string{"name", "type", "scripts", "dependencies", "devDependencies"} {
		if val, ok := data[key]; ok {
			filtered[key] = val
		}
	}
	out, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return content
	}
	return string(out)
}

// String renders the summary as prompt context.
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("Existing project context:\n")
	if len(s.KeyFiles) > 0 {
		files := append([]string(nil), s.KeyFiles...)
		sort.Strings(files)
		fmt.Fprintf(&b, "Key files: %s\n", strings.Join(files, ", "))
	}
	if len(s.Layout) > 0 {
		fmt.Fprintf(&b, "Directories: %s\n", strings.Join(s.Layout, ", "))
	}
	for _, snip := range s.Snippets {
		fmt.Fprintf(&b, "--- %s", snip.Path)
		if snip.Truncated {
			b.WriteString(" (truncated)")
		}
		b.WriteString(" ---\n")
		b.WriteString(strings.TrimRight(snip.Text, "\n"))
		b.WriteString("\n")
	}
	for _, warning := range s.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	return b.String()
}
