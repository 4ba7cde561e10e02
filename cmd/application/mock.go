package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/internal/catalogs"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	CatalogFunc       func(context.Context) (catalogs.Catalog, error)
	ClientOptionsFunc func() []colsync.Option
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Catalog returns a catalog using the mock function or nil.
func (m *Mock) Catalog(ctx context.Context) (catalogs.Catalog, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc(ctx)
	}
	return nil, nil
}

// ClientOptions returns options using the mock function or none.
func (m *Mock) ClientOptions() []colsync.Option {
	if m.ClientOptionsFunc != nil {
		return m.ClientOptionsFunc()
	}
	return nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
