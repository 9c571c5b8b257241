// Package errors provides typed errors with exit codes for cargo-sync.
//
// # Error Types
//
// SyncError is the base error type that wraps an error with an exit code:
//
//	type SyncError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	    Restore error  // Manifest restoration failure, if any
//	}
//
// # Exit Codes
//
//	ExitSuccess            = 0  // Success
//	ExitGeneralError       = 1  // General/unknown errors
//	ExitPrecondition       = 2  // Dirty tree, too few members, leftover concealed manifest
//	ExitCollaboratorFailed = 3  // git or cargo could not run or exited non-zero
//	ExitMalformedOutput    = 4  // cargo metadata output missing fields or unparseable
//	ExitFilesystem         = 5  // Rename or copy failed
//	ExitConfigError        = 6  // Configuration error
//
// # Restoration Failures
//
// The workspace manifest is always put back after the member loop. If that
// fails while a loop error is already in flight, WithRestoreFailure keeps the
// loop error (and its exit code) as the primary cause and appends the
// restoration failure to the message:
//
//	err = errors.WithRestoreFailure(loopErr, tx.End())
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
