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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestEncode ErrorCode = "MANIFEST_ENCODE"
	ErrManifestWrite  ErrorCode = "MANIFEST_WRITE"
	ErrManifestRemove ErrorCode = "MANIFEST_REMOVE"

	// Link and copy errors
	ErrSymlinkCreate  ErrorCode = "SYMLINK_CREATE"
	ErrJunctionCreate ErrorCode = "JUNCTION_CREATE"
	ErrCopyCreate     ErrorCode = "COPY_CREATE"
	ErrLinkRemove     ErrorCode = "LINK_REMOVE"
	ErrPathExists     ErrorCode = "PATH_EXISTS"

	// Destination errors
	ErrDestCreate ErrorCode = "DEST_CREATE"
	ErrDestAccess ErrorCode = "DEST_ACCESS"

	// Command errors
	ErrSyncFailed  ErrorCode = "SYNC_FAILED"
	ErrCleanFailed ErrorCode = "CLEAN_FAILED"
)

// PluglinkError represents a structured error with code and details
type PluglinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PluglinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PluglinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PluglinkError) Is(target error) bool {
	var targetErr *PluglinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PluglinkError with the given code and message
func New(code ErrorCode, message string) *PluglinkError {
	return &PluglinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PluglinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PluglinkError {
	return &PluglinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PluglinkError
func Wrap(err error, code ErrorCode, message string) *PluglinkError {
	if err == nil {
		return nil
	}
	return &PluglinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PluglinkError {
	if err == nil {
		return nil
	}
	return &PluglinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PluglinkError) WithDetail(key string, value interface{}) *PluglinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PluglinkError) WithDetails(details map[string]interface{}) *PluglinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var plErr *PluglinkError
	if errors.As(err, &plErr) {
		return plErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PluglinkError
func GetErrorCode(err error) ErrorCode {
	var plErr *PluglinkError
	if errors.As(err, &plErr) {
		return plErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PluglinkError
func GetErrorDetails(err error) map[string]interface{} {
	var plErr *PluglinkError
	if errors.As(err, &plErr) {
		return plErr.Details
	}
	return nil
}
