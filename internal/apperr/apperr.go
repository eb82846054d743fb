// Package apperr defines the application error taxonomy. Every error that
// crosses a service boundary carries a stable machine-readable code and a
// human-readable message; storage details never leak through it.
package apperr

import "errors"

type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

type Error struct {
	Code    Code
	Message string
	// Fields carries optional per-field validation detail.
	Fields map[string]string
}

func (e *Error) Error() string { return e.Message }

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns the taxonomy code of err, or CodeInternal for anything
// that is not an *Error.
func CodeOf(err error) Code {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return CodeInternal
}

func Authentication(message string) *Error {
	if message == "" {
		message = "Not authenticated"
	}
	return &Error{Code: CodeUnauthenticated, Message: message}
}

func Authorization(message string) *Error {
	if message == "" {
		message = "Not authorized"
	}
	return &Error{Code: CodeForbidden, Message: message}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func Internal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Code: CodeInternal, Message: message}
}
