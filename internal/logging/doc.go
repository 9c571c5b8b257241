// Package logging provides logging utilities for cargo-sync.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running collaborator", "dir", dir, "cmd", cmdline)
//	logging.Warn("status check failed, treating tree as dirty", "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Syncing %s", member.Directory)
//	logging.UserSuccess("Synchronized %d members", n)
//	logging.UserWarning("Workspace manifest is still hidden at %s", path)
//	logging.UserError("%v", err)
//
// Output destinations (redirectable with SetUserOutput):
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
