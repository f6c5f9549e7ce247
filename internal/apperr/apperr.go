// Package apperr defines the error kinds the service surfaces to callers.
// Everything that is not one of these kinds is treated as an internal
// failure and must not leak detail into the domain-error channel.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is the fallback for unrecognized failures (store
	// unavailable and the like).
	KindInternal Kind = iota
	// KindValidation: missing or malformed input, resource untouched.
	KindValidation
	// KindAuth: bad credentials or a missing/expired/invalid token.
	KindAuth
	// KindForbidden: authenticated but not allowed, distinct from KindAuth.
	KindForbidden
	// KindNotFound: a referenced id does not exist.
	KindNotFound
	// KindConflict: duplicate membership.
	KindConflict
)

type Error struct {
	Kind    Kind
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Auth(message string) *Error       { return New(KindAuth, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }

// KindOf reports the kind of err, or KindInternal when err does not
// carry one.
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
