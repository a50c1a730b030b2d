package doctrail

import (
	"errors"
	"fmt"
)

// Application error codes. These map to the failure classes of the pipeline:
// ENOTFOUND for absent documents/files, EMISSINGINPUT for a required upstream
// field that was never populated (a stage ran out of order), EPERSISTENCE for
// store failures, and ECONVERSION for raw→text conversion failures.
const (
	ECONVERSION   = "conversion"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	EMISSINGINPUT = "missing_input"
	ENOTFOUND     = "not_found"
	EPERSISTENCE  = "persistence"
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("doctrail error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Otherwise returns EINTERNAL. Returns an empty string for nil errors.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Otherwise returns a generic message. Returns an empty string for nil errors.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
