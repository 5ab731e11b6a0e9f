package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder assembles an error with an optional hint and reportable
// details before classifying it with Mark. The zero builder is not usable;
// start from NewError, NewErrorf or WithError.
type ErrorBuilder struct {
	err     error
	hint    string
	details map[string]interface{}
}

// NewError starts a builder from a new error with the given message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(message)}
}

// NewErrorf starts a builder from a new formatted error.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a builder wrapping an existing error.
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{err: err}
}

// WithHint attaches a user-facing hint to the error.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hint = hint
	return b
}

// WithHintf attaches a formatted user-facing hint to the error.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details that are safe to report.
// Details are rendered only in verbose output, never in Error().
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.details = details
	return b
}

// Mark finalizes the builder, classifying the error with the given sentinel.
// The returned error keeps the original message; hints and details ride along
// out of band.
func (b *ErrorBuilder) Mark(mark error) error {
	err := b.err
	if b.hint != "" {
		err = errors.WithHint(err, b.hint)
	}
	for k, v := range b.details {
		err = errors.WithDetailf(err, "%s: %v", k, v)
	}
	return errors.Mark(err, mark)
}
