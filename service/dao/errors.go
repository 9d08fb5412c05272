package dao

import "errors"

// Sentinel errors shared by all instance stores; match them with errors.Is.
var (
	// ErrNotFound is returned when no instance is stored under the id.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID is returned for an empty id.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when saving a nil instance.
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrConflict is returned when the stored version differs from the one
	// the caller loaded. Callers reload and retry.
	ErrConflict = errors.New("dao: version conflict")
)
