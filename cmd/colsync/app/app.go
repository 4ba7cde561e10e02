// Package app provides the application context and dependency management
// for the colsync CLI. It centralizes configuration, logging, and the
// catalog connection shared by all commands.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/cmd/application"
	"github.com/agentstation/colsync/internal/catalogs"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/errors"
)

// App represents the colsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Catalog backend (lazy-initialized, singleton)
	mu      sync.Mutex
	catalog catalogs.Catalog
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Catalog returns the configured catalog, opening it on first use.
func (a *App) Catalog(ctx context.Context) (catalogs.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog, nil
	}

	driver, err := catalogs.ParseDriver(a.config.CatalogDriver)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("driver", driver.String()).
		Msg("Opening catalog")

	cat, err := catalogs.Open(ctx, driver, a.config.CatalogDSN)
	if err != nil {
		return nil, err
	}
	a.catalog = cat
	return cat, nil
}

// ClientOptions returns the colsync options derived from configuration.
func (a *App) ClientOptions() []colsync.Option {
	return []colsync.Option{
		colsync.WithMaxDistance(a.config.MaxDistance),
		colsync.WithMatchConcurrency(a.config.MatchConcurrency),
		colsync.WithReadTimeout(a.config.ReadTimeout),
		colsync.WithApplyOptions(apply.WithConcurrency(a.config.ApplyConcurrency)),
	}
}

// Shutdown releases the catalog connection.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog == nil {
		return nil
	}
	err := a.catalog.Close()
	a.catalog = nil
	if err != nil {
		return errors.WrapIO("close", "catalog", err)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCatalog sets an already opened catalog (useful for testing).
func WithCatalog(cat catalogs.Catalog) Option {
	return func(a *App) error {
		a.catalog = cat
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
