// Package errors provides structured error types for the Tileboard application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, terminal canvas and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND / GESTURE_*: Missing tiles and gesture state
//   - NETWORK_* / IMAGE_SOURCE_*: Image source failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidHandle, "unknown handle: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidHandle) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageSourceUnavailable, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidHandle Code = "INVALID_HANDLE"
	ErrCodeInvalidBounds Code = "INVALID_BOUNDS"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidScript Code = "INVALID_SCRIPT"

	// Resource and gesture state errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTileNotFound     Code = "TILE_NOT_FOUND"
	ErrCodeGestureNotActive Code = "GESTURE_NOT_ACTIVE"

	// Image source errors
	ErrCodeNetwork                Code = "NETWORK_ERROR"
	ErrCodeTimeout                Code = "TIMEOUT"
	ErrCodeRateLimited            Code = "RATE_LIMITED"
	ErrCodeImageSourceUnavailable Code = "IMAGE_SOURCE_UNAVAILABLE"
	ErrCodeImageSourceEmpty       Code = "IMAGE_SOURCE_EMPTY"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// HTTPStatus maps an error to the status code the HTTP API responds with.
// Errors without a Code map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidHandle, ErrCodeInvalidBounds, ErrCodeInvalidConfig, ErrCodeInvalidScript:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeTileNotFound:
		return http.StatusNotFound
	case ErrCodeGestureNotActive:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNetwork, ErrCodeImageSourceUnavailable, ErrCodeImageSourceEmpty:
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
