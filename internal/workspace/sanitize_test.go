package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"main.go", "main.go"},
		{"src//app/./main.go", "src/app/main.go"},
		{"/etc/passwd", "etc/passwd"},
		{"../../etc/passwd", "etc/passwd"},
		{"a/../../b", "b"},
		{"..", ""},
		{"../..", ""},
		{"", ""},
		{"./", ""},
		{`C:\Windows\system32`, "Windows/system32"},
		{"C:/Users/x", "Users/x"},
		{"C:", ""},
		{"a:b.txt", "a:b.txt"},
		{"dir/a:b.txt", "dir/a:b.txt"},
		{`..\..\secret.txt`, "secret.txt"},
		{"dir/", "dir"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	ws, err := Open(root)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	inputs := []string{"../outside", "/abs/path", "a/../../..", `..\..\x`, "../" + filepath.Base(root) + "x/file"}
	for _, in := range inputs {
		abs, err := ws.Resolve(in)
		if err != nil {
			t.Fatalf("resolve %q: %v", in, err)
		}
		if abs != ws.Root() && !strings.HasPrefix(abs, ws.Root()+string(os.PathSeparator)) {
			t.Fatalf("resolve %q escaped root: %s", in, abs)
		}
	}
}
