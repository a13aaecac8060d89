// Package apperr defines the failure taxonomy shared by the mutation
// engines and the HTTP layer. Engines return *Error values; the api
// package maps kinds to status codes in exactly one place.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	Unexpected Kind = iota
	Validation
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	Timeout
	StorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Timeout:
		return "timeout"
	case StorageUnavailable:
		return "storage_unavailable"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind Kind
	// Msg is safe to surface to the caller; wrapped causes are not.
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf classifies any error. Context deadline expiry counts as Timeout so
// storage calls that outlive their budget surface as such instead of as
// internal failures.
func KindOf(err error) Kind {
	if err == nil {
		return Unexpected
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Unexpected
}

// Is supports errors.Is matching on kind via sentinel-style comparison:
// two *Error values match when their kinds match.
func (e *Error) Is(target error) bool {
	var ae *Error
	if errors.As(target, &ae) {
		return e.Kind == ae.Kind
	}
	return false
}
