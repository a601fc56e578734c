// Package apperr defines the error kinds surfaced by the service layer and
// their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service-layer failure.
type Kind int

const (
	// KindInternal is any unexpected failure. Mapped to 500.
	KindInternal Kind = iota

	// KindValidation is a missing or malformed required field. Mapped to 400.
	KindValidation

	// KindInvalidOperation is a structurally valid request that the domain
	// rules reject (e.g. joining a personal room, the creator leaving their
	// own room). Mapped to 400.
	KindInvalidOperation

	// KindUnauthenticated means no or invalid identity. Mapped to 401.
	KindUnauthenticated

	// KindForbidden means the caller lacks the required relationship to the
	// resource. Mapped to 403.
	KindForbidden

	// KindNotFound means the room/expense/user does not exist. Mapped to 404.
	KindNotFound
)

// Error is a classified service-layer error.
type Error struct {
	Knd Kind
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error with the given message.
func Validation(msg string) error {
	return &Error{Knd: KindValidation, Msg: msg}
}

// InvalidOperation returns a KindInvalidOperation error with the given message.
func InvalidOperation(msg string) error {
	return &Error{Knd: KindInvalidOperation, Msg: msg}
}

// Unauthenticated returns a KindUnauthenticated error with the given message.
func Unauthenticated(msg string) error {
	return &Error{Knd: KindUnauthenticated, Msg: msg}
}

// Forbidden returns a KindForbidden error with the given message.
func Forbidden(msg string) error {
	return &Error{Knd: KindForbidden, Msg: msg}
}

// NotFound returns a KindNotFound error with the given message.
func NotFound(msg string) error {
	return &Error{Knd: KindNotFound, Msg: msg}
}

// Internal wraps err as a KindInternal error.
func Internal(msg string, err error) error {
	return &Error{Knd: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Knd
	}
	return KindInternal
}

// HTTPStatus maps err to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for err. Internal errors collapse
// to a generic message so details never leak to the transport boundary.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Knd != KindInternal {
		return ae.Msg
	}
	return "internal server error"
}
