// Package application provides the application interface for colsync commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            ctx := cmd.Context()
//	            catalog, err := app.Catalog(ctx)
//	            if err != nil {
//	                return err
//	            }
//	            client, err := colsync.New(catalog, catalog, app.ClientOptions()...)
//	            // ... plan, review, apply
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    CatalogFunc: func(context.Context) (catalogs.Catalog, error) {
//	        return memory.NewCatalogWith(source, target), nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/internal/catalogs"
)

// Application provides the application interface that commands need.
// The App struct from cmd/colsync/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Catalog returns the configured catalog backend, opening it on first use.
	// The application owns the catalog and closes it on shutdown.
	Catalog(ctx context.Context) (catalogs.Catalog, error)

	// ClientOptions returns the colsync options derived from configuration
	// (match threshold, concurrency). Commands append their own.
	ClientOptions() []colsync.Option

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
