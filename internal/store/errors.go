package store

import (
	"errors"
	"fmt"
)

// Sentinel errors. Implementations wrap them so callers can classify
// failures with errors.Is without knowing the backing database.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrInvalidEntity = errors.New("rejected by store") // failed validation or a table constraint

	// ErrTaskNotFound is ErrNotFound for the task entity.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which store operation failed on which entity.
// Err keeps the classified cause, so errors.Is sees through it.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s store: %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
