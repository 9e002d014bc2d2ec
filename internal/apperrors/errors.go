// Package apperrors defines the typed error set surfaced by the lookup core.
// Each type carries the HTTP status the route layer should respond with, so
// callers can distinguish "bad input" from "city unknown" from "upstream is
// down" from "upstream changed its contract" without string matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	// InvalidArgument means the caller supplied an empty or unusable city.
	InvalidArgument ErrorType = "INVALID_ARGUMENT"
	// CityNotFound means the upstream reported zero matches. Terminal, no retry.
	CityNotFound ErrorType = "CITY_NOT_FOUND"
	// UpstreamAuth means the upstream rejected our credentials. Must never be
	// folded into CityNotFound or a generic 500.
	UpstreamAuth ErrorType = "UPSTREAM_AUTH_ERROR"
	// UpstreamUnavailable is a transport-level failure talking to the upstream.
	UpstreamUnavailable ErrorType = "UPSTREAM_UNAVAILABLE"
	// MalformedUpstream means the upstream answered but the payload is missing
	// required fields.
	MalformedUpstream ErrorType = "MALFORMED_UPSTREAM_DATA"
)

// AppError is the structured error returned across the service boundary.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Raw     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// HTTPStatus maps the error type to the status code the route layer uses.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case InvalidArgument:
		return http.StatusBadRequest
	case CityNotFound:
		return http.StatusNotFound
	case UpstreamAuth:
		return http.StatusBadGateway
	case UpstreamUnavailable:
		return http.StatusServiceUnavailable
	case MalformedUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError of the given type.
func New(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

// Wrap attaches a raw error as detail.
func Wrap(err error, t ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Type: t, Message: message, Detail: err.Error(), Raw: err}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// IsType reports whether err is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
