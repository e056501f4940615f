package text

import (
	"errors"
	"fmt"
)

// Errors returned by text operations.
var (
	// ErrOutOfRange indicates a position or line number outside the document.
	ErrOutOfRange = errors.New("out of range")

	// ErrEmptyText indicates a document or inserted span with zero lines.
	ErrEmptyText = errors.New("text must contain at least one line")
)

// RangeError describes a position or line number that fell outside the
// document. It matches ErrOutOfRange with errors.Is.
type RangeError struct {
	// Op is the operation that rejected the value.
	Op string
	// Kind is "position" or "line".
	Kind string
	// Value is the rejected value.
	Value int
	// Min and Max are the inclusive bounds that were violated.
	Min, Max int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: invalid %s %d (valid range %d..%d)", e.Op, e.Kind, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
