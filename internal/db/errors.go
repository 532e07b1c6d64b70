package db

import "errors"

// Domain-level database error sentinels.
var (
	// ErrEmptyDisease is returned when importing an entry without a disease name.
	ErrEmptyDisease = errors.New("disease name is required")
)
