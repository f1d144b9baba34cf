package core

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a mutation or fetch target does not exist within
// the caller's owner scope. A record owned by someone else is indistinguishable
// from a missing one.
var ErrNotFound = errors.New("not found")

// ValidationError reports bad input. It is recovered locally and never
// reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BackendError wraps a store or auth-provider failure. The operation is
// aborted with no partial effect and is not retried.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend failure: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBackend reports whether err is a BackendError.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
