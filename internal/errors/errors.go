// Package errors provides the typed domain errors used across submerge.
//
// Every failure the core reports is a single *Error carrying a Kind and a
// message. Boundaries (HTTP handlers, CLI) map the Kind to their own
// vocabulary; inner packages construct errors and never format status codes.
//
//	if err := srt.ParseTimestamp(s); err != nil {
//		var derr *errors.Error
//		if errors.As(err, &derr) && derr.Kind == errors.KindParse { ... }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library helpers so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Kind classifies a domain error.
type Kind string

const (
	// KindParse marks malformed subtitle input. Nothing is processed.
	KindParse Kind = "parse"
	// KindConfig marks an option or configuration value outside its domain.
	KindConfig Kind = "config"
	// KindNotFound marks a missing stored object or input file.
	KindNotFound Kind = "not_found"
	// KindInternal marks a broken invariant. Always a programming defect.
	KindInternal Kind = "internal"
)

// HTTPStatus maps a kind to the status an HTTP boundary should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindParse:
		return http.StatusUnprocessableEntity
	case KindConfig:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a kind, a message, and an optional cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status for this error's kind.
func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, cause: err}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrParse    = &Error{Kind: KindParse, Message: "parse error"}
	ErrConfig   = &Error{Kind: KindConfig, Message: "config error"}
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInternal = &Error{Kind: KindInternal, Message: "internal error"}
)

// Parse creates a parse error.
func Parse(msg string) *Error {
	return &Error{Kind: KindParse, Message: msg}
}

// Parsef creates a parse error with a formatted message.
func Parsef(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// Config creates a config error.
func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

// Configf creates a config error with a formatted message.
func Configf(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// Internalf creates an internal error with a formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err under a kind with a message.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: err}
}

// Wrapf wraps err under a kind with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: err}
}

// KindOf extracts the kind from any error, defaulting to KindInternal for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
