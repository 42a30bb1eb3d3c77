package workspace

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 20

// Workspace performs file operations confined to a single project root.
type Workspace struct {
	root string
	fs   afero.Fs
}

// Open prepares the project root at dir, creating it when missing, and
// returns a workspace backed by the OS filesystem.
func Open(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return nil, opError("open", abs, errors.New("not a directory"))
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, opError("open", abs, err)
		}
	case err != nil:
		return nil, opError("open", abs, err)
	}
	return New(abs, afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

// New wraps an existing filesystem whose root corresponds to root on disk.
func New(root string, fsys afero.Fs) *Workspace {
	return &Workspace{root: filepath.Clean(root), fs: fsys}
}

// Root returns the absolute project root.
func (w *Workspace) Root() string { return w.root }

// Stat describes the entry at p.
func (w *Workspace) Stat(p string) (fs.FileInfo, error) {
	info, err := w.fs.Stat(Sanitize(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return info, err
}

// Resolve sanitizes p and returns its absolute location under the root.
func (w *Workspace) Resolve(p string) (string, error) {
	rel := Sanitize(p)
	abs := filepath.Clean(filepath.Join(w.root, filepath.FromSlash(rel)))
	if abs != w.root && !strings.HasPrefix(abs, w.root+string(os.PathSeparator)) {
		return "", opError("resolve", p, ErrOutsideRoot)
	}
	return abs, nil
}

// Write replaces the content of p, creating parent directories. A trailing
// newline is added when content lacks one.
func (w *Workspace) Write(p, content string) error {
	rel := Sanitize(p)
	if rel == "" {
		return ErrInvalidPath
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := w.ensureParent(rel); err != nil {
		return opError("write", rel, err)
	}
	if err := afero.WriteFile(w.fs, rel, []byte(content), 0o644); err != nil {
		return opError("write", rel, err)
	}
	return nil
}

// Append adds content verbatim to the end of p, creating it and its parents.
func (w *Workspace) Append(p, content string) error {
	rel := Sanitize(p)
	if rel == "" {
		return ErrInvalidPath
	}
	if err := w.ensureParent(rel); err != nil {
		return opError("append", rel, err)
	}
	f, err := w.fs.OpenFile(rel, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return opError("append", rel, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return opError("append", rel, err)
	}
	if err := f.Close(); err != nil {
		return opError("append", rel, err)
	}
	return nil
}

// Read returns the content of p.
func (w *Workspace) Read(p string) (string, error) {
	rel := Sanitize(p)
	if _, err := w.fs.Stat(rel); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotExist
		}
		return "", opError("read", rel, err)
	}
	data, err := afero.ReadFile(w.fs, rel)
	if err != nil {
		return "", opError("read", rel, err)
	}
	return string(data), nil
}

// ReadHead returns at most maxBytes from the start of p and reports whether
// the file was longer.
func (w *Workspace) ReadHead(p string, maxBytes int64) (string, bool, error) {
	rel := Sanitize(p)
	f, err := w.fs.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, ErrNotExist
		}
		return "", false, opError("read", rel, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", false, opError("read", rel, err)
	}
	if int64(len(data)) > maxBytes {
		return string(data[:maxBytes]), true, nil
	}
	return string(data), false, nil
}

// CreateDir creates exactly one directory level at p.
func (w *Workspace) CreateDir(p string) error {
	rel := Sanitize(p)
	if _, err := w.fs.Stat(rel); err == nil {
		return ErrDirExists
	}
	if err := w.fs.Mkdir(rel, 0o755); err != nil {
		return opError("mkdir", rel, err)
	}
	return nil
}

// Move relocates src to dst. When dst is an existing directory and src a
// file, the file is moved inside it.
func (w *Workspace) Move(src, dst string) error {
	from, to, err := w.prepareTransfer("move", src, dst)
	if err != nil {
		return err
	}
	if err := w.fs.Rename(from, to); err != nil {
		return opError("move", from, err)
	}
	return nil
}

// Copy duplicates the regular file src at dst, following the same
// destination rules as Move.
func (w *Workspace) Copy(src, dst string) error {
	from, to, err := w.prepareTransfer("copy", src, dst)
	if err != nil {
		return err
	}
	if err := w.copyFile(from, to); err != nil {
		return opError("copy", from, err)
	}
	return nil
}

// Delete removes the file at p, or the directory at p with all its contents.
func (w *Workspace) Delete(p string) error {
	rel := Sanitize(p)
	if rel == "" {
		return ErrInvalidPath
	}
	info, err := w.fs.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return opError("remove", rel, err)
	}
	if info.IsDir() {
		err = w.fs.RemoveAll(rel)
	} else {
		err = w.fs.Remove(rel)
	}
	if err != nil {
		return opError("remove", rel, err)
	}
	return nil
}

// List returns up to limit files relative to the root, shallow files first:
// every file directly in the root precedes any file one level down, and so
// on. Within a depth, files keep lexical walk order.
func (w *Workspace) List(limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var byDepth [][]string
	err := afero.Walk(w.fs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			// unreadable entries are skipped, not fatal
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel := filepath.ToSlash(p)
		depth := strings.Count(rel, "/")
		for len(byDepth) <= depth {
			byDepth = append(byDepth, nil)
		}
		byDepth[depth] = append(byDepth[depth], rel)
		return nil
	})
	if err != nil {
		return nil, opError("list", ".", err)
	}
	files := make([]string, 0, limit)
	for _, level := range byDepth {
		for _, f := range level {
			if len(files) == limit {
				return files, nil
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func (w *Workspace) prepareTransfer(op, src, dst string) (string, string, error) {
	from := Sanitize(src)
	to := Sanitize(dst)
	if from == "" || to == "" {
		return "", "", opError(op, from, ErrInvalidPath)
	}
	if err := w.ensureParent(to); err != nil {
		return "", "", opError(op, to, err)
	}
	srcInfo, err := w.fs.Stat(from)
	if err != nil {
		return "", "", opError(op, from, err)
	}
	dstInfo, err := w.fs.Stat(to)
	if err == nil && dstInfo.IsDir() {
		if srcInfo.IsDir() {
			return "", "", ErrDestinationExists
		}
		to = path.Join(to, path.Base(from))
	}
	return from, to, nil
}

func (w *Workspace) copyFile(from, to string) error {
	info, err := w.fs.Stat(from)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.New("source is not a regular file")
	}
	in, err := w.fs.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := w.fs.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (w *Workspace) ensureParent(rel string) error {
	parent := path.Dir(rel)
	if parent == "." || parent == "/" {
		return nil
	}
	return w.fs.MkdirAll(parent, 0o755)
}
