package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema marks a malformed or incompatible table shape.
	ErrSchema = errors.New("schema error")
	// ErrUnknownLabel is returned when a label or label code has no mapping.
	ErrUnknownLabel = errors.New("unknown label")
)

// SchemaError describes where a table violates the expected shape.
// It matches ErrSchema under errors.Is.
type SchemaError struct {
	Table  string
	Row    int // 1-based data row, 0 when not row specific
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.Table != "" {
		msg += " in " + e.Table
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	return msg + ": " + e.Reason
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
