// Package errors defines the typed error used across the module.
package errors

import (
	"errors"
	"fmt"
)

// Error codes, mapped onto the contract-violation/recoverable split.
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeContractViolation  = "CONTRACT_VIOLATION"
	CodeResourceExhaustion = "RESOURCE_EXHAUSTION"
	CodeCollectiveMismatch = "COLLECTIVE_MISMATCH"
	CodeIOError            = "IO_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeConfigError        = "CONFIG_ERROR"
)

// CoreError is a typed error with a stable code, a human message, and an
// optional wrapped cause.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *CoreError) Unwrap() error {
	return e.Err
}

// Is matches on code, so errors.Is(err, ErrNotFound) works across wraps.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a CoreError with no wrapped cause.
func New(code, message string) *CoreError {
	return &CoreError{Code: code, Message: message}
}

// Wrap creates a CoreError around an existing error.
func Wrap(code, message string, err error) *CoreError {
	return &CoreError{Code: code, Message: message, Err: err}
}

// Sentinel instances for errors.Is comparisons.
var (
	ErrContractViolation  = New(CodeContractViolation, "contract violation")
	ErrResourceExhaustion = New(CodeResourceExhaustion, "resource exhaustion")
	ErrCollectiveMismatch = New(CodeCollectiveMismatch, "processes disagree on committed state")
	ErrIOError            = New(CodeIOError, "i/o error")
	ErrInvalidInput       = New(CodeInvalidInput, "invalid input")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConfigError        = New(CodeConfigError, "configuration error")
)

// Code extracts the error code from err, or CodeUnknown if err is not a
// *CoreError.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeUnknown
}

// IsNotFound reports whether err is (or wraps) a not-found CoreError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsIOError reports whether err is (or wraps) an I/O CoreError.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIOError)
}
