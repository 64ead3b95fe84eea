package workflow

import (
	"errors"
	"fmt"
)

// ErrInvalidStateTransition means the entity was not in the source state
// the operation requires. The losing side of a concurrent approve/deny race
// also surfaces as this error; prior decisions are never overwritten.
var ErrInvalidStateTransition = errors.New("invalid state transition")

var ErrNotFound = errors.New("not found")

// ValidationError is raised before any mutation is attempted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Msg)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
