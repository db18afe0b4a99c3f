package errors

import (
	"errors"
	"fmt"
)

// Outcome classes. Services wrap these so handlers can pick a status code
// with errors.Is without knowing the concrete failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is an expected, caller-correctable failure with a client-facing message.
type Error struct {
	Kind    error
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewNotFound reports that no resource of the named kind matched the lookup
func NewNotFound(resource string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Code:    ResourceNotFound,
		Message: fmt.Sprintf("No %s matches the given query.", resource),
	}
}

func NewUnauthorized(code, message string) *Error {
	return &Error{Kind: ErrUnauthorized, Code: code, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Code: AuthzForbidden, Message: message}
}
