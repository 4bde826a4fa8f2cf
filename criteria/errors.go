package criteria

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a root, path or join cannot be
	// resolved against the metamodel.
	ErrInvalidPath = errors.New("criteria: invalid path")

	// ErrInvalidQuery is returned when a query cannot be rendered.
	ErrInvalidQuery = errors.New("criteria: invalid query")
)

// PathError reports a path that does not resolve against the metamodel.
type PathError struct {
	Path    string
	Message string
}

// Error returns the error string.
func (e *PathError) Error() string {
	return fmt.Sprintf("criteria: invalid path %s: %s", e.Path, e.Message)
}

// Is reports whether the target matches ErrInvalidPath.
func (e *PathError) Is(target error) bool {
	return target == ErrInvalidPath
}

func newPathError(path, msg string) *PathError {
	return &PathError{Path: path, Message: msg}
}

// QueryError reports a structurally incomplete query.
type QueryError struct {
	Message string
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return "criteria: invalid query: " + e.Message
}

// Is reports whether the target matches ErrInvalidQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// IsPathError reports whether err is a PathError.
func IsPathError(err error) bool {
	var e *PathError
	return errors.As(err, &e)
}
