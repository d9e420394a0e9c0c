package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write loses a compare-and-set race,
	// e.g. deciding a stop request that is no longer pending.
	ErrConflict = errors.New("entity state conflict")
)
