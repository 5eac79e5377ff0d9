package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or is not visible to the caller.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSequenceConflict indicates a concurrent creation computed the same
	// per-owner sequence number and lost the unique-index race.
	ErrSequenceConflict = errors.New("resume sequence conflict")
)
