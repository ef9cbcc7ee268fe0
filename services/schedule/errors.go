package schedule

import (
	"errors"
	"fmt"
)

// Format and range errors.
var (
	ErrInvalidFormat = errors.New("time must be in HH:mm format")
	ErrOutOfRange    = errors.New("minutes out of range [0,1439]")
)

// Operation errors.
var (
	ErrEmptySelection = errors.New("recurrence requires at least one day")
	ErrImport         = errors.New("import payload must be a JSON array of slots")
	ErrSlotNotFound   = errors.New("slot not found")
)

// ValidationError reports a slot that fails a model invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid slot: %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed store write or subscribe. The local
// in-memory update is kept; callers surface this as a notification only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
