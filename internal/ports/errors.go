package ports

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrWriteConflict is returned when a write's status precondition no
	// longer holds (another actor changed the row first).
	ErrWriteConflict = errors.New("write conflict")
)
