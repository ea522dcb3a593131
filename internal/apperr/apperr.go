// Package apperr defines the error taxonomy shared by every service.
// Handlers and resolvers map kinds to transport-level status codes;
// services never see HTTP.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API boundary.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks malformed or semantically invalid input.
	KindValidation
	// KindNotFound marks a missing referenced resource.
	KindNotFound
	// KindAuthorization marks a requester lacking permission for the target.
	KindAuthorization
	// KindConflict marks an operation violating a state invariant.
	KindConflict
	// KindStorage wraps persistence-layer failures.
	KindStorage
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	// Fields holds per-field validation messages, when applicable.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a KindValidation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// ValidationFields creates a KindValidation error carrying field details.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// NotFound creates a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Authorization creates a KindAuthorization error.
func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

// Authorizationw creates a KindAuthorization error wrapping a sentinel so
// callers can still branch with errors.Is.
func Authorizationw(msg string, err error) *Error {
	return &Error{Kind: KindAuthorization, Msg: msg, Err: err}
}

// Conflict creates a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Storage wraps a persistence failure.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Msg: "storage failure", Err: err}
}

// Storagef wraps a persistence failure with an operation label.
func Storagef(op string, err error) *Error {
	return &Error{Kind: KindStorage, Msg: op, Err: err}
}

// KindOf extracts the Kind from any error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
