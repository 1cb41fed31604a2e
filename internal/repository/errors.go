package repository

import "errors"

// Storage-agnostic sentinels. Repositories translate driver errors into
// these so services never import pgx.
var (
	// ErrNotFound is returned when a queried row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert loses to a uniqueness
	// constraint. Callers are expected to read back the winning row.
	ErrDuplicate = errors.New("record already exists")
)
