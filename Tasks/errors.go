package Tasks

import (
	"errors"
	"fmt"

	"Aegis/Models"
)

var (
	// ErrNotFound covers unresolvable template or task ids.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidState marks an operation attempted from a forbidden
	// state; the caller must refresh, retrying cannot help.
	ErrInvalidState = errors.New("operation not allowed in the current state")
	// ErrValidation marks missing or malformed mandatory input,
	// raised before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateGeneration is the duplicate signal, not a failure:
	// the caller may confirm with force=true.
	ErrDuplicateGeneration = errors.New("a task was already generated for this template and day")
)

// DuplicateError carries the existing same-day instance so callers can
// surface it alongside the duplicate signal.
type DuplicateError struct {
	Existing *Models.TaskInstance
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("task %d already covers this template and day", e.Existing.ID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateGeneration
}
