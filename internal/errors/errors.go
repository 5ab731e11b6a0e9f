// Package errors provides the internal error taxonomy. Errors are built with
// a fluent builder and classified by marking them with one of the sentinel
// errors below, so callers can branch on the class without string matching.
package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors used as marks. A marked error satisfies errors.Is against
// its mark while keeping the original message and cause chain.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrHTTPClient       = errors.New("http client error")
	ErrInternal         = errors.New("internal error")
	ErrSystem           = errors.New("system error")
)

// IsNotFound returns true if the error is marked as a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is marked as a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsHTTPClient returns true if the error is marked as a remote client error.
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// Message returns the plain message of an error, without hints or details.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Hint returns the first hint attached to the error, if any.
func Hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}
