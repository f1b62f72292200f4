package models

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with an existing
	// unique value, e.g. a duplicate work order human id.
	ErrConflict = errors.New("conflicting record exists")
)
