package models

import (
	"errors"
	"fmt"
)

// Common error types
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidID    = errors.New("invalid identifier")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("operation conflicts with current state")
	ErrStorage      = errors.New("storage unavailable")
)

// Error codes carried by AppError
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidID    = "INVALID_ID"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeStorage      = "STORAGE_ERROR"
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrValidation,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrInvalidIDWithMsg creates an error for a malformed identifier. A malformed
// identifier can never resolve, so the error also matches ErrNotFound.
func ErrInvalidIDWithMsg(message string) error {
	return &AppError{
		Code:    CodeInvalidID,
		Message: message,
		Err:     errors.Join(ErrInvalidID, ErrNotFound),
	}
}

// ErrUnauthorizedWithMsg creates an authentication error
func ErrUnauthorizedWithMsg(message string) error {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrStorageWithCause wraps a backing-store failure.
func ErrStorageWithCause(message string, cause error) error {
	return &AppError{
		Code:    CodeStorage,
		Message: fmt.Sprintf("%s: %v", message, cause),
		Err:     errors.Join(ErrStorage, cause),
	}
}
