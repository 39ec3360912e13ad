// Package apperr defines the error taxonomy shared by all domain services.
// Every failure a handler can surface is one of three kinds: invalid input,
// a missing record, or an invariant violation. Repositories and services
// return these directly; nothing is retried internally.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the error category carried over the wire.
type Code string

const (
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"
)

// Error is a categorised application error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Validation reports malformed or out-of-range input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown record or a tenant scope mismatch.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports an invariant violation: bed unavailable, duplicate bed
// number, capacity exceeded, illegal state transition, patient already
// admitted.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an Error so callers can still inspect the
// underlying storage failure with errors.Is/As.
func Wrap(err error, e *Error) *Error {
	e.cause = err
	return e
}

// FromError extracts the *Error from err's chain, or nil.
func FromError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	ae := FromError(err)
	return ae != nil && ae.Code == CodeValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	ae := FromError(err)
	return ae != nil && ae.Code == CodeNotFound
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	ae := FromError(err)
	return ae != nil && ae.Code == CodeConflict
}

// HTTPStatus maps an error to the status its code mirrors.
func HTTPStatus(err error) int {
	switch ae := FromError(err); {
	case ae == nil:
		return http.StatusInternalServerError
	case ae.Code == CodeValidation:
		return http.StatusBadRequest
	case ae.Code == CodeNotFound:
		return http.StatusNotFound
	case ae.Code == CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
