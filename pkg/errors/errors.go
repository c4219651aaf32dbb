// Package errors provides structured, coded errors for ovos-config.
// Codes let callers branch on failure category (policy vs. I/O vs.
// parse) without matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigParse     ErrorCode = "CONFIG_PARSE"
	ErrConfigSerialize ErrorCode = "CONFIG_SERIALIZE"

	// Policy errors
	ErrReadOnly       ErrorCode = "READ_ONLY"
	ErrNoSaveLocation ErrorCode = "NO_SAVE_LOCATION"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// ConfigError represents a structured error with code and details
type ConfigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ConfigError carrying the same code.
func (e *ConfigError) Is(target error) bool {
	var targetErr *ConfigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConfigError with the given code and message
func New(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConfigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ConfigError
func Wrap(err error, code ErrorCode, message string) *ConfigError {
	if err == nil {
		return nil
	}
	return &ConfigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConfigError {
	if err == nil {
		return nil
	}
	return &ConfigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ConfigError) WithDetail(key string, value interface{}) *ConfigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var confErr *ConfigError
	if errors.As(err, &confErr) {
		return confErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if
// the error is not a ConfigError.
func GetErrorCode(err error) ErrorCode {
	var confErr *ConfigError
	if errors.As(err, &confErr) {
		return confErr.Code
	}
	return ErrUnknown
}
