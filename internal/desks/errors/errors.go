package errors

import "errors"

var (
	ErrNotFound = errors.New("desk not found")

	ErrInvalidID = errors.New("invalid desk ID format")

	// ErrVersionConflict means the desk changed between load and save.
	ErrVersionConflict = errors.New("desk version conflict")
)
