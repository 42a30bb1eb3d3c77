package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autopilot/internal/workspace"
)

// ListFilesTool lists project files, shallow ones first.
type ListFilesTool struct {
	ws    *workspace.Workspace
	limit int
}

func (ListFilesTool) Name() string { return "list_files" }

func (ListFilesTool) Description() string { return "List the files in the current project" }

func (ListFilesTool) Params() []Param {
	return []Param{{Name: "list", Description: "Set always to 'list'"}}
}

func (t ListFilesTool) Execute(ctx context.Context, args Args) (string, error) {
	files, err := t.ws.List(t.limit)
	if err != nil {
		return "", err
	}
	return "List of files in the project:\n" + strings.Join(files, "\n"), nil
}

type fileArgs struct {
	Filename string `arg:"filename"`
	Content  string `arg:"content"`
}

// ReadFileTool returns the content of a file.
type ReadFileTool struct {
	ws *workspace.Workspace
}

func (ReadFileTool) Name() string { return "read_file" }

func (ReadFileTool) Description() string {
	return "Read the contents of a file with given name. Returns the file contents as string."
}

func (ReadFileTool) Params() []Param {
	return []Param{{Name: "filename", Description: "The filename to read"}}
}

func (t ReadFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in fileArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	name := workspace.Sanitize(in.Filename)
	content, err := t.ws.Read(in.Filename)
	switch {
	case errors.Is(err, workspace.ErrNotExist):
		return fmt.Sprintf("File %s does not exist", name), nil
	case err != nil:
		return "", fail(err, "ERROR: Unable to read file %s", name)
	}
	return fmt.Sprintf("The contents of '%s':\n%s", name, content), nil
}

// WriteFileTool replaces the content of a file.
type WriteFileTool struct {
	ws *workspace.Workspace
}

func (WriteFileTool) Name() string { return "write_file" }

func (WriteFileTool) Description() string {
	return "Write content to a file with given name. Existing files will be overwritten. Parent directories will be created if they don't exist"
}

func (WriteFileTool) Params() []Param {
	return []Param{
		{Name: "filename", Description: "The filename to write to"},
		{Name: "content", Description: "The content to write into the file"},
	}
}

func (t WriteFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in fileArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	name := workspace.Sanitize(in.Filename)
	if err := t.ws.Write(in.Filename, in.Content); err != nil {
		return "", fail(err, "ERROR: Unable to write file %s", name)
	}
	return fmt.Sprintf("File %s written successfully", name), nil
}

// AppendFileTool appends content to a file.
type AppendFileTool struct {
	ws *workspace.Workspace
}

func (AppendFileTool) Name() string { return "append_file" }

func (AppendFileTool) Description() string {
	return "Write content to the end of a file with given name"
}

func (AppendFileTool) Params() []Param {
	return []Param{
		{Name: "filename", Description: "The filename to write to"},
		{Name: "content", Description: "The content to write into the file"},
	}
}

func (t AppendFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in fileArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	name := workspace.Sanitize(in.Filename)
	if err := t.ws.Append(in.Filename, in.Content); err != nil {
		return "", fail(err, "ERROR: Unable to write file %s", name)
	}
	return fmt.Sprintf("File %s appended successfully", name), nil
}

type transferArgs struct {
	Source      string `arg:"source"`
	Destination string `arg:"destination"`
}

// MoveFileTool relocates a file or directory.
type MoveFileTool struct {
	ws *workspace.Workspace
}

func (MoveFileTool) Name() string { return "move_file" }

func (MoveFileTool) Description() string {
	return "Move a file from one place to another. Parent directories will be created if they don't exist"
}

func (MoveFileTool) Params() []Param {
	return []Param{
		{Name: "source", Description: "The source file to move"},
		{Name: "destination", Description: "The new filename / filepath"},
	}
}

func (t MoveFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in transferArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	err := t.ws.Move(in.Source, in.Destination)
	switch {
	case errors.Is(err, workspace.ErrDestinationExists):
		return "", fail(err, "ERROR: Destination folder already exists.")
	case err != nil:
		return "", fail(err, "Unable to move file.")
	}
	return fmt.Sprintf("Moved %s to %s", workspace.Sanitize(in.Source), workspace.Sanitize(in.Destination)), nil
}

// CopyFileTool duplicates a file.
type CopyFileTool struct {
	ws *workspace.Workspace
}

func (CopyFileTool) Name() string { return "copy_file" }

func (CopyFileTool) Description() string {
	return "Copy a file from one place to another. Parent directories will be created if they don't exist"
}

func (CopyFileTool) Params() []Param {
	return []Param{
		{Name: "source", Description: "The source file to copy"},
		{Name: "destination", Description: "The new filename / filepath"},
	}
}

func (t CopyFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in transferArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	err := t.ws.Copy(in.Source, in.Destination)
	switch {
	case errors.Is(err, workspace.ErrDestinationExists):
		return "", fail(err, "ERROR: Destination folder already exists.")
	case err != nil:
		return "", fail(err, "Unable to copy file.")
	}
	return fmt.Sprintf("File %s copied to %s", workspace.Sanitize(in.Source), workspace.Sanitize(in.Destination)), nil
}

// CreateDirTool creates a single directory level.
type CreateDirTool struct {
	ws *workspace.Workspace
}

func (CreateDirTool) Name() string { return "create_dir" }

func (CreateDirTool) Description() string { return "Create a directory with given name" }

func (CreateDirTool) Params() []Param {
	return []Param{{Name: "directory", Description: "Name of the directory to create"}}
}

func (t CreateDirTool) Execute(ctx context.Context, args Args) (string, error) {
	var in struct {
		Directory string `arg:"directory"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	name := workspace.Sanitize(in.Directory)
	err := t.ws.CreateDir(in.Directory)
	switch {
	case errors.Is(err, workspace.ErrDirExists):
		return "", fail(err, "ERROR: Directory exists")
	case err != nil:
		return "", fail(err, "ERROR: Unable to create directory %s", name)
	}
	return fmt.Sprintf("Directory %s created!", name), nil
}

// DeleteFileTool removes a file or a directory tree.
type DeleteFileTool struct {
	ws *workspace.Workspace
}

func (DeleteFileTool) Name() string { return "delete_file" }

func (DeleteFileTool) Description() string { return "Deletes a file with given name" }

func (DeleteFileTool) Params() []Param {
	return []Param{{Name: "filename", Description: "The filename to delete"}}
}

func (t DeleteFileTool) Execute(ctx context.Context, args Args) (string, error) {
	var in fileArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	name := workspace.Sanitize(in.Filename)
	err := t.ws.Delete(in.Filename)
	switch {
	case errors.Is(err, workspace.ErrNotExist):
		return "", fail(err, "ERROR: File %s does not exist", name)
	case err != nil:
		return "", fail(err, "ERROR: Unable to remove file.")
	}
	return fmt.Sprintf("File %s successfully deleted", name), nil
}
