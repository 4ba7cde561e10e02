// Package errors provides custom error types for the colsync system.
// These errors enable programmatic error checking with errors.Is and errors.As
// across schema reading, matching, review and apply.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the colsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate indicates that a name appears more than once where it must be unique
	ErrDuplicate = errors.New("duplicate")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")

	// ErrWriteFailed indicates that a catalog rejected a metadata update
	ErrWriteFailed = errors.New("write failed")

	// ErrInvalidState indicates an operation that is not allowed in the current session state
	ErrInvalidState = errors.New("invalid state")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// SchemaNotFoundError is returned when a schema reader cannot resolve a table identifier.
// It is always surfaced before matching begins.
type SchemaNotFoundError struct {
	Table string
	Err   error
}

// Error implements the error interface
func (e *SchemaNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema for table %s not found: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("schema for table %s not found", e.Table)
}

// Unwrap implements errors.Unwrap
func (e *SchemaNotFoundError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewSchemaNotFoundError creates a new SchemaNotFoundError
func NewSchemaNotFoundError(table string, err error) *SchemaNotFoundError {
	return &SchemaNotFoundError{Table: table, Err: err}
}

// DuplicateColumnError reports a snapshot that violates column name uniqueness.
type DuplicateColumnError struct {
	Snapshot string // "source" or "target"
	Column   string
}

// Error implements the error interface
func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column name %q in %s snapshot", e.Column, e.Snapshot)
}

// Is implements errors.Is support
func (e *DuplicateColumnError) Is(target error) bool {
	return target == ErrDuplicate || target == ErrInvalidInput
}

// NewDuplicateColumnError creates a new DuplicateColumnError
func NewDuplicateColumnError(snapshot, column string) *DuplicateColumnError {
	return &DuplicateColumnError{Snapshot: snapshot, Column: column}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// WriteError is the per-row failure recorded when a catalog writer rejects an update.
type WriteError struct {
	Table  string
	Column string
	Err    error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to update description of %s.%s: %v", e.Table, e.Column, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewWriteError creates a new WriteError
func NewWriteError(table, column string, err error) *WriteError {
	return &WriteError{Table: table, Column: column, Err: err}
}

// StateError reports an operation attempted in a session state that does not allow it.
type StateError struct {
	State     string
	Operation string
}

// Error implements the error interface
func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: session is %s", e.Operation, e.State)
}

// Is implements errors.Is support
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// NewStateError creates a new StateError
func NewStateError(state, operation string) *StateError {
	return &StateError{State: state, Operation: operation}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json", "identifier"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "query", "exec"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDuplicate checks if an error reports a duplicate name
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsWriteFailure checks if an error is a rejected catalog update
func IsWriteFailure(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}

// IsInvalidState checks if an error is an illegal session transition
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapWrite wraps an error as a WriteError
func WrapWrite(table, column string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(table, column, err)
}
