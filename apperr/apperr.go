// Package apperr defines the error kinds services return and the HTTP
// boundary translates into status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindValidation indicates malformed or missing input.
	KindValidation Kind = "VALIDATION"
	// KindConflict indicates a uniqueness violation on a resource.
	KindConflict Kind = "CONFLICT"
	// KindDuplicateVote indicates the voter already voted on the dish today.
	KindDuplicateVote Kind = "DUPLICATE_VOTE"
	// KindAuth indicates bad credentials or a bad session token.
	KindAuth Kind = "UNAUTHORIZED"
	// KindNotFound indicates a missing resource, or one the caller does not own.
	KindNotFound Kind = "NOT_FOUND"
	// KindInternal indicates an unexpected store or runtime failure.
	KindInternal Kind = "INTERNAL"
)

// Error carries a kind, a message safe to show to clients and the
// underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf reports the kind of err. Errors that carry no kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-facing message of err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
