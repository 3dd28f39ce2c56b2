package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates an invalid or incomplete configuration
	// document. Fatal at load time, before any job runs.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeUnsafeRule indicates a retention rule that would match every
	// row without the allow-full-table override. Fatal for that job only.
	ErrCodeUnsafeRule ErrorCode = "unsafe_rule"
	// ErrCodeDump indicates a storage sink failure while persisting a dump
	// artifact. Aborts the current job before its delete step.
	ErrCodeDump ErrorCode = "dump"
	// ErrCodeDelete indicates the database rejected a delete statement.
	ErrCodeDelete ErrorCode = "delete"
	// ErrCodeLogging indicates an audit sink failure. Reported, never fatal.
	ErrCodeLogging ErrorCode = "logging"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the configuration field that caused the error (optional)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Configuration creates a new Configuration error.
func Configuration(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
	}
}

// Configurationf creates a new Configuration error with formatted message.
func Configurationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigurationField creates a new Configuration error for a specific field.
func ConfigurationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
		Field:   field,
	}
}

// UnsafeRule creates a new UnsafeRule error.
func UnsafeRule(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsafeRule,
		Message: message,
	}
}

// UnsafeRulef creates a new UnsafeRule error with formatted message.
func UnsafeRulef(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeUnsafeRule,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsConfiguration checks if an error is a Configuration error.
func IsConfiguration(err error) bool {
	return isCode(err, ErrCodeConfiguration)
}

// IsUnsafeRule checks if an error is an UnsafeRule error.
func IsUnsafeRule(err error) bool {
	return isCode(err, ErrCodeUnsafeRule)
}

// IsDump checks if an error is a Dump error.
func IsDump(err error) bool {
	return isCode(err, ErrCodeDump)
}

// IsDelete checks if an error is a Delete error.
func IsDelete(err error) bool {
	return isCode(err, ErrCodeDelete)
}

// IsLogging checks if an error is a Logging error.
func IsLogging(err error) bool {
	return isCode(err, ErrCodeLogging)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
