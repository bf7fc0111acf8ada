package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidWeekday  = errors.New("invalid weekday")
	ErrInvalidDate     = errors.New("invalid date")
	ErrPersistence     = errors.New("persistence failure")
	ErrMalformedState  = errors.New("malformed persisted state")
	ErrArchiveDisabled = errors.New("archiving is disabled in hard-delete mode")
	ErrReadOnly        = errors.New("store is in read-only mode")
)

// ValidationError reports which fields of a record were rejected.
// Err usually holds an ozzo validation.Errors map.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a store failure with the operation and key involved.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", ErrPersistence, e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
