package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandSignaled ErrorCode = "COMMAND_SIGNALED"
	ErrCodeSpawnFailed     ErrorCode = "SPAWN_FAILED"

	// Watch mode errors
	ErrCodeWatchInit   ErrorCode = "WATCH_INIT"
	ErrCodeIgnoreFile  ErrorCode = "IGNORE_FILE"
	ErrCodeEventSource ErrorCode = "EVENT_SOURCE"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// SprintError represents a structured error with context
type SprintError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SprintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SprintError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SprintError) WithDetail(key string, value interface{}) *SprintError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SprintError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SprintError
func New(code ErrorCode, message string) *SprintError {
	return &SprintError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SprintError
func Wrap(err error, code ErrorCode, message string) *SprintError {
	return &SprintError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific SprintError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	sprintErr, ok := err.(*SprintError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return sprintErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	sprintErr, ok := err.(*SprintError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return sprintErr.Code
}
