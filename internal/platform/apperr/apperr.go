// Package apperr provides the typed error vocabulary shared by all domain
// services. Services return these instead of picking HTTP statuses or
// signaling failure through booleans; the HTTP layer translates them once.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-level translation.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
	KindUnauthorized
	KindForbidden
)

// Error is a classified application error. It wraps an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes two Errors match when their kinds match, so callers can test
// errors.Is(err, apperr.NotFound("")) style sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Msg: msg}
}

func Invalidf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Internal wraps an unexpected failure, preserving the cause for logs.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error,
// KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is (or wraps) a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalid reports whether err is (or wraps) a validation error.
func IsInvalid(err error) bool { return KindOf(err) == KindInvalid }
