package service

import (
	"errors"
	"fmt"

	"github.com/pranchal07/heal/internal/repository"
	"github.com/pranchal07/heal/internal/validation"
)

var (
	// ErrNotFound is returned when the requested submission does not exist.
	// It matches repository.ErrNotFound with errors.Is.
	ErrNotFound = fmt.Errorf("submission %w", repository.ErrNotFound)

	// ErrInvalidID is returned for ids that are not positive integers.
	ErrInvalidID = errors.New("id must be a positive integer")
)

// ValidationError carries the field-level violations of a rejected submission.
type ValidationError struct {
	Violations []validation.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}

// StorageError wraps a failure from the persistence layer. The wrapped error is
// meant for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }
