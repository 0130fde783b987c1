// Package repository implements the data-access layer over the store
// client. This file defines the sentinel errors shared across the
// repositories so higher layers can map failures onto HTTP statuses with
// errors.Is: ErrForbidden to 403, ErrNotFound to 404, ErrConflict to 409
// and ErrInvalid to 400.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned when the acting user lacks the access level an
// operation requires, or does not resolve to an existing user at all.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create or credentials update would
// violate username uniqueness.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a write targets an entity that does not
// exist. Plain reads of a missing entity return a nil record instead.
var ErrNotFound = errors.New("not found")

// ErrInvalid is returned when required attributes or audit fields are
// missing. It is raised before any statement is staged, so one bad record
// aborts its whole batch.
var ErrInvalid = errors.New("invalid input")

// BatchError aggregates per-record failures of a batch operation. Errs is
// aligned with the operation's input; entries that passed are nil. When a
// BatchError is returned nothing was written: every record is checked
// before the batch is assembled.
type BatchError struct {
	Errs []error
}

func (e *BatchError) Error() string {
	var parts []string
	for i, err := range e.Errs {
		if err != nil {
			parts = append(parts, fmt.Sprintf("[%d] %v", i, err))
		}
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual failures so errors.Is sees through the
// aggregate.
func (e *BatchError) Unwrap() []error { return e.Errs }

// batchError returns nil when every entry is nil.
func batchError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return &BatchError{Errs: errs}
		}
	}
	return nil
}
