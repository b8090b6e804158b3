package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for outcomes the caller is expected to branch on.
var (
	ErrDuplicateIdentifier = &AppError{
		Code:       "DUPLICATE_IDENTIFIER",
		Message:    "An account with this email or phone already exists",
		StatusCode: http.StatusConflict,
	}
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid credentials",
		StatusCode: http.StatusUnauthorized,
	}
	ErrMissingAttachment = &AppError{
		Code:       "MISSING_ATTACHMENT",
		Message:    "Image is required",
		StatusCode: http.StatusBadRequest,
	}
	ErrAlreadyAssigned = &AppError{
		Code:       "ALREADY_ASSIGNED",
		Message:    "Issue is already assigned to this employee",
		StatusCode: http.StatusConflict,
	}
	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Invalid authorization token",
		StatusCode: http.StatusUnauthorized,
	}
)

// AppError is a client-visible failure. It carries the HTTP status the API
// layer should answer with; Cause is kept for logs and never serialized.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound reports that an entity of the given kind does not exist.
func NotFound(kind string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    kind + " not found",
		StatusCode: http.StatusNotFound,
	}
}

// ValidationFailed reports a rejected input field.
func ValidationFailed(field, reason string) *AppError {
	return &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    fmt.Sprintf("%s: %s", field, reason),
		StatusCode: http.StatusBadRequest,
	}
}

// Internal wraps an unexpected collaborator failure. The generic message is
// what clients see; cause stays server-side.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Something went wrong",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// From extracts the AppError from err, wrapping anything else as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
