// Package domainerrors provides code-carrying errors for the service layer.
//
// Services return these so transports can map failures to a status without
// string matching. Stores do not use this package; they return sentinel
// errors (pkg/platform/sentinel) which services translate at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and retry decisions.
type Code string

const (
	// CodeValidation marks bad input caught before any side effect.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a malformed or unparseable request.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks an absent profile, relation, or record.
	CodeNotFound Code = "not_found"
	// CodeForbidden marks a requester lacking the required relation or flag.
	CodeForbidden Code = "forbidden"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeConflict marks a uniqueness or concurrent-update violation.
	CodeConflict Code = "conflict"
	// CodeExternalService marks a failed or non-success account issuer call.
	// Distinct from CodeValidation so callers can decide to retry the whole
	// saga (accepting duplicate-profile risk) or invoke manual cleanup.
	CodeExternalService Code = "external_service"
	// CodeInvariantViolation marks an illegal state transition on a model.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// HasCode reports whether err (or any error it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Cause
	}
	return false
}

// Is is an alias for HasCode kept for readability at call sites.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost domain error, or CodeInternal if
// err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
