package dao

import "fmt"

// NextVersion validates an optimistic save. expected is the version the
// caller loaded (0 for a new entity); stored and exists describe the
// persisted copy. It returns the version to persist.
func NextVersion(id string, expected, stored int, exists bool) (int, error) {
	switch {
	case !exists && expected != 0:
		return 0, fmt.Errorf("%v was removed at version %d: %w", id, expected, ErrConflict)
	case exists && stored != expected:
		return 0, fmt.Errorf("%v expected version %d, stored %d: %w", id, expected, stored, ErrConflict)
	}
	return expected + 1, nil
}
