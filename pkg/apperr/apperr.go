// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP boundary. Handlers and repositories return *Error values; the api
// package translates the kind into a status code in exactly one place.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal   Kind = iota
	KindValidation      // malformed or missing input
	KindAuth            // missing/invalid/expired credential
	KindForbidden       // authenticated but wrong role
	KindNotFound        // resource absent or not owned by the caller
	KindConflict        // duplicate email, duplicate application
)

type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field validation messages, when the failure is
	// attributable to specific input fields.
	Fields map[string]string
	Err    error

	// status overrides the kind's default code when non-zero.
	status int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to its HTTP status code. The duplicate-application
// conflict is reported as 400 to match the wired route contract, so Conflict
// callers that want 409 set it explicitly via WithStatus.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		if e.status != 0 {
			return e.status
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) WithStatus(code int) *Error {
	e.status = code
	return e
}

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Auth(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As unwraps err into an *Error, or nil when err carries no taxonomy kind.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
