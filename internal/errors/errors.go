package errors

import (
	"errors"
	"fmt"
)

// Exit codes for cargo-sync
const (
	ExitSuccess            = 0
	ExitGeneralError       = 1
	ExitPrecondition       = 2
	ExitCollaboratorFailed = 3
	ExitMalformedOutput    = 4
	ExitFilesystem         = 5
	ExitConfigError        = 6
)

// SyncError is the base error type for cargo-sync
type SyncError struct {
	Code    int
	Message string
	Cause   error

	// Restore is set when putting the workspace manifest back also failed.
	// It never replaces the primary cause.
	Restore error
}

func (e *SyncError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Restore != nil {
		msg = fmt.Sprintf("%s\nadditionally, restoring the workspace manifest failed: %v", msg, e.Restore)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *SyncError) ExitCode() int {
	return e.Code
}

// New creates a new SyncError
func New(code int, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SyncError
func Wrap(code int, message string, cause error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Precondition returns an error for a check that failed before any mutation
func Precondition(message string) *SyncError {
	return New(ExitPrecondition, message)
}

// CollaboratorFailed returns an error for an external command that could not
// be started or exited non-zero
func CollaboratorFailed(message string, cause error) *SyncError {
	return Wrap(ExitCollaboratorFailed, message, cause)
}

// MalformedOutput returns an error for collaborator output that could not be
// understood
func MalformedOutput(message string, cause error) *SyncError {
	return Wrap(ExitMalformedOutput, message, cause)
}

// Filesystem returns an error for a rename or copy that could not complete
func Filesystem(message string, cause error) *SyncError {
	return Wrap(ExitFilesystem, message, cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *SyncError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *SyncError {
	return New(ExitGeneralError, message)
}

// WithRestoreFailure combines the outcome of the member loop with the outcome
// of restoring the workspace manifest. The loop error stays the primary cause.
func WithRestoreFailure(primary, restore error) error {
	if restore == nil {
		return primary
	}
	if primary == nil {
		return restore
	}

	var syncErr *SyncError
	if errors.As(primary, &syncErr) {
		combined := *syncErr
		combined.Restore = restore
		return &combined
	}
	return &SyncError{
		Code:    ExitGeneralError,
		Message: primary.Error(),
		Restore: restore,
	}
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
