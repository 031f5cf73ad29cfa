package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for steward errors.
type ErrorCode string

// Parse error codes cover failures extracting a tool call from model output.
const (
	PARSE_MALFORMED_JSON ErrorCode = "PARSE_MALFORMED_JSON"
	PARSE_MISSING_TOOL   ErrorCode = "PARSE_MISSING_TOOL"
	PARSE_TIMEOUT        ErrorCode = "PARSE_TIMEOUT"
)

// Validation error codes cover schema violations in a parsed call.
const (
	VALIDATION_UNKNOWN_TOOL          ErrorCode = "VALIDATION_UNKNOWN_TOOL"
	VALIDATION_MISSING_ARGUMENT      ErrorCode = "VALIDATION_MISSING_ARGUMENT"
	VALIDATION_INVALID_ARGUMENT_TYPE ErrorCode = "VALIDATION_INVALID_ARGUMENT_TYPE"
)

// Execution error codes cover failures inside tool handlers.
const (
	EXECUTION_HANDLER_EXCEPTION ErrorCode = "EXECUTION_HANDLER_EXCEPTION"
	EXECUTION_HANDLER_TIMEOUT   ErrorCode = "EXECUTION_HANDLER_TIMEOUT"
)

// Security outcome codes. An injection rejection is a policy decision,
// not a failure, but it travels the same structured channel.
const (
	SECURITY_INJECTION_REJECTED ErrorCode = "SECURITY_INJECTION_REJECTED"
)

// Model error codes cover the external completion service.
const (
	MODEL_TIMEOUT     ErrorCode = "MODEL_TIMEOUT"
	MODEL_UNAVAILABLE ErrorCode = "MODEL_UNAVAILABLE"
)

// Tool and store error codes.
const (
	TOOL_NOT_FOUND      ErrorCode = "TOOL_NOT_FOUND"
	TOOL_INVALID_DEF    ErrorCode = "TOOL_INVALID_DEF"
	TOOL_ALREADY_EXISTS ErrorCode = "TOOL_ALREADY_EXISTS"
	STORE_APPEND_FAILED ErrorCode = "STORE_APPEND_FAILED"
	STORE_QUERY_FAILED  ErrorCode = "STORE_QUERY_FAILED"
)

// Configuration and database error codes.
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	DB_OPEN_FAILED           ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED      ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED          ErrorCode = "DB_QUERY_FAILED"
)

// Error is a structured error with a code, message, and optional cause.
// It supports error wrapping and carries a retryability hint consumed by
// the pipeline's self-correction loop.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if a cause exists.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so sentinel comparison works across wraps.
func (e *Error) Is(target error) bool {
	var serr *Error
	if errors.As(target, &serr) {
		return e.Code == serr.Code
	}
	return false
}

// NewError creates a non-retryable Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewRetryableError creates a retryable Error. Use for transient failures
// that may succeed on another attempt (timeouts, provider hiccups).
func NewRetryableError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Retryable: true}
}

// WrapError creates a non-retryable Error wrapping an existing error.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or empty string when err is not
// a structured Error.
func CodeOf(err error) ErrorCode {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ""
}

// IsRetryable reports whether err is marked transient.
func IsRetryable(err error) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Retryable
	}
	return false
}
