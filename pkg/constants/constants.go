// Package constants provides shared constants used throughout the colsync codebase.
// This includes matching thresholds, timeouts, limits and file permissions that
// should be consistent across the application.
package constants

import "time"

// Matching constants
const (
	// DefaultMaxDistance is the largest edit distance at which two column names still match
	DefaultMaxDistance = 3

	// DefaultMatchConcurrency is the number of target columns scored in parallel (1 = sequential)
	DefaultMatchConcurrency = 1

	// DefaultApplyConcurrency is the number of column updates issued in parallel (1 = sequential)
	DefaultApplyConcurrency = 1
)

// Timeout constants
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// PingTimeout bounds the connectivity check against a catalog database
	PingTimeout = 5 * time.Second

	// ReadSchemaTimeout bounds reading one table's column metadata
	ReadSchemaTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long graceful shutdown may take
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxDescriptionLength is the longest column description accepted from review, in characters
	MaxDescriptionLength = 4096

	// MaxOpenConns is the connection pool size for catalog databases
	MaxOpenConns = 4

	// MaxIdleConns is the idle connection pool size for catalog databases
	MaxIdleConns = 2

	// ConnMaxLifetime is how long a pooled catalog connection may be reused
	ConnMaxLifetime = 5 * time.Minute

	// TruncateWidth is where long descriptions are cut in table output
	TruncateWidth = 60
)

// Format constants
const (
	// DecisionFileVersion is the schema version written to decision documents
	DecisionFileVersion = 1

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
