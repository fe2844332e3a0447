package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with an HTTP status and a
// user-facing message. The wrapped error carries internal detail and is
// never serialized to clients.
type AppError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode satisfies the error middleware contract.
func (e *AppError) StatusCode() int {
	return e.Status
}

// Error constructors

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
