// Package apperr holds the caller-visible error taxonomy of the gateway and
// maps internal failures onto it.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

// Kind is a caller-visible error category
type Kind string

const (
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindUpstream   Kind = "upstream"
	KindInternal   Kind = "internal"
)

// Error is a failure classified into exactly one Kind.
// Message is safe to show to the caller; Err carries the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Auth creates an AuthError
func Auth(message string, err error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: err}
}

// Validation creates a ValidationError
func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// NotFound creates an error for a resource the gateway does not serve
func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// Upstream creates an UpstreamError
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Internal creates an InternalError
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From maps any error onto the taxonomy. Classified errors pass through,
// expired deadlines become upstream timeouts, everything else is internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Upstream("upstream request timed out", err)
	}

	return Internal("internal server error", err)
}

// KindOf returns the Kind of err after mapping
func KindOf(err error) Kind {
	if mapped := From(err); mapped != nil {
		return mapped.Kind
	}
	return ""
}

// StatusCode returns the HTTP status for err
func StatusCode(err error) int {
	mapped := From(err)
	if mapped == nil {
		return http.StatusOK
	}

	switch mapped.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		if errors.Is(mapped, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text rendered in the error response body.
// Internal failures never expose their cause.
func PublicMessage(err error) string {
	mapped := From(err)
	if mapped == nil {
		return ""
	}
	if mapped.Kind == KindInternal {
		return "internal server error"
	}
	return mapped.Message
}
