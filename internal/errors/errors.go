// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can branch on the category of a session
// failure without string matching.
//
// The package supports wrapping underlying errors while maintaining error kind information.
// Two errors match under errors.Is when their kinds are equal, which lets callers test
// against the sentinel values exported below.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigurationError indicates a required capability was not supplied.
	ConfigurationError Kind = "configuration_error"
	// AuthenticationFailure indicates the login or signup call was rejected.
	AuthenticationFailure Kind = "authentication_failure"
	// SessionInvalidated indicates the backend reported 401/403 for an existing session.
	SessionInvalidated Kind = "session_invalidated"
	// FetchError indicates the current-user lookup failed.
	FetchError Kind = "fetch_error"
	// MalformedResponse indicates the backend answered without the expected fields.
	MalformedResponse Kind = "malformed_response"
	// StorageError indicates the token store could not be read or written.
	StorageError Kind = "storage_error"
)

// Sentinels for errors.Is comparisons.
var (
	ErrConfiguration         = New(ConfigurationError, "")
	ErrAuthenticationFailure = New(AuthenticationFailure, "")
	ErrSessionInvalidated    = New(SessionInvalidated, "")
	ErrFetch                 = New(FetchError, "")
	ErrMalformedResponse     = New(MalformedResponse, "")
	ErrStorage               = New(StorageError, "")
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
