package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrNotExist is returned when the named path is missing.
	ErrNotExist = errors.New("path does not exist")
	// ErrDirExists is returned by CreateDir when the path is already present.
	ErrDirExists = errors.New("directory exists")
	// ErrDestinationExists is returned by Move and Copy when both source and
	// destination are existing directories.
	ErrDestinationExists = errors.New("destination folder already exists")
	// ErrInvalidPath is returned when an operation would act on the project root itself.
	ErrInvalidPath = errors.New("path refers to the project root")
	// ErrOutsideRoot is returned when a path resolves outside the project root.
	ErrOutsideRoot = errors.New("path escapes project root")
)

// OpError records a failed filesystem operation and its cause.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Err: err}
}
