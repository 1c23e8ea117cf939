package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a resolution failure. Callers branch on the kind, not
// on message text: NotFound and ValidationError are client faults, the rest
// are service faults.
type ErrorKind string

const (
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindNotFound            ErrorKind = "CITY_NOT_FOUND"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamError       ErrorKind = "UPSTREAM_ERROR"
	KindMalformedResponse   ErrorKind = "MALFORMED_RESPONSE"
)

// Error is a structured resolution error.
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Raw
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// ValidationFailed reports bad caller input. Enforced at the HTTP boundary
// before the pipeline runs.
func ValidationFailed(message, detail string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NotFound reports that geocoding produced no match for the city. Terminal
// and never cached; the city may exist upstream tomorrow.
func NotFound(city string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    "city not found",
		Detail:     fmt.Sprintf("no geocoding match for %q", city),
		HTTPStatus: http.StatusNotFound,
	}
}

// UpstreamUnavailable reports a connection-level failure reaching the
// provider after retries. The message stays stable regardless of the
// underlying transport error text.
func UpstreamUnavailable(err error) *Error {
	return &Error{
		Kind:       KindUpstreamUnavailable,
		Message:    "weather provider unavailable, try again later",
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
}

// UpstreamFailed reports a non-success provider status, carrying status and
// body for diagnostics. Not retried further.
func UpstreamFailed(status int, body []byte) *Error {
	return &Error{
		Kind:       KindUpstreamError,
		Message:    "weather provider request failed",
		Detail:     fmt.Sprintf("status %d: %s", status, truncate(body, 512)),
		HTTPStatus: http.StatusBadGateway,
	}
}

// MalformedResponse reports a provider payload missing required structure.
// Signals a provider contract change, not a network blip.
func MalformedResponse(detail string, err error) *Error {
	return &Error{
		Kind:       KindMalformedResponse,
		Message:    "weather provider returned an unexpected payload",
		Detail:     detail,
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
