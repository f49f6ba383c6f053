package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code        int               `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrNotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrConflict     = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
	ErrInternal     = func(msg string) *HTTPError { return NewHTTPError(http.StatusInternalServerError, msg) }
)

// ErrValidation carries per-field messages back to the client.
func ErrValidation(msg string, fields map[string]string) *HTTPError {
	return &HTTPError{Code: http.StatusUnprocessableEntity, Message: msg, FieldErrors: fields}
}

// GetCode returns the status code carried by err, 500 for anything else.
func GetCode(err error) int {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// As unwraps err into an *HTTPError when possible.
func As(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	ok := stderrors.As(err, &httpErr)
	return httpErr, ok
}
