// Package errs defines the error taxonomy shared by the query, pagination,
// and API client layers. Every error that reaches a tool caller carries one
// of the kinds below so the caller can distinguish its own mistakes
// (configuration, unsupported filter) from remote failures (transport,
// auth, malformed response) and loop safety stops (pagination limit).
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the tool layer.
type Kind string

const (
	KindConfiguration     Kind = "configuration_error"
	KindUnsupportedFilter Kind = "unsupported_filter"
	KindMalformedResponse Kind = "malformed_response"
	KindTransport         Kind = "transport_error"
	KindAuth              Kind = "auth_error"
	KindPaginationLimit   Kind = "pagination_limit"
)

// Error is a classified error with optional structured details.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// With attaches a structured detail and returns the same error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a classified error.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" if err carries no taxonomy kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
