// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents a completed operation or an applied update.
	Success = "✓"

	// Error represents a failed operation or a rejected update.
	Error = "✗"

	// Warning represents non-critical issues such as a stale decision file.
	Warning = "!"

	// Skipped represents a row left alone because it was not approved.
	Skipped = "-"

	// Unchanged represents a row whose description is already current.
	Unchanged = "="

	// Planned represents a row that a dry run would update.
	Planned = "~"

	// Info represents informational messages.
	Info = "i"
)
