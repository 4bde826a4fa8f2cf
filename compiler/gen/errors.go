package gen

import (
	"errors"
	"strings"
)

var (
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("metamodel: code generation failed")

	// ErrNameConflict indicates two declarations mapped to the same Go
	// identifier.
	ErrNameConflict = errors.New("metamodel: generated name conflict")
)

// GenerationError represents a failure to render or write a file.
type GenerationError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("metamodel: generation error")
	if e.File != "" {
		b.WriteString(" for ")
		b.WriteString(e.File)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(file, message string, cause error) *GenerationError {
	return &GenerationError{File: file, Message: message, Cause: cause}
}

// NameConflictError reports two classes or attributes generating the same
// identifier.
type NameConflictError struct {
	Ident  string
	First  string
	Second string
}

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	return "metamodel: identifier " + e.Ident + " generated for both " + e.First + " and " + e.Second
}

// Is reports whether the target matches ErrNameConflict.
func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// IsGenerationError reports whether err is a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}

// IsNameConflict reports whether err is a NameConflictError.
func IsNameConflict(err error) bool {
	var e *NameConflictError
	return errors.As(err, &e)
}
