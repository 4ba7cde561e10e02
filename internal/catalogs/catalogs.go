// Package catalogs opens the catalog backend selected by configuration.
package catalogs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/colsync/internal/catalogs/embedded"
	"github.com/agentstation/colsync/internal/catalogs/files"
	"github.com/agentstation/colsync/internal/catalogs/memory"
	"github.com/agentstation/colsync/internal/catalogs/postgres"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Driver names a catalog backend.
type Driver string

const (
	// Embedded is the built-in demo catalog.
	Embedded Driver = "embedded"
	// Files is a directory of YAML table files; the DSN is the directory.
	Files Driver = "files"
	// Memory is an empty in-memory catalog.
	Memory Driver = "memory"
	// Postgres is a PostgreSQL database; the DSN is a lib/pq connection string.
	Postgres Driver = "postgres"
)

// Drivers lists the supported drivers.
var Drivers = []Driver{Embedded, Files, Memory, Postgres}

func (d Driver) String() string {
	return string(d)
}

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	for _, d := range Drivers {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	names := make([]string, len(Drivers))
	for i, d := range Drivers {
		names[i] = string(d)
	}
	return "", errors.NewValidationError("catalog.driver", s,
		fmt.Sprintf("unknown driver (supported: %s)", strings.Join(names, ", ")))
}

// Catalog is an opened backend.
type Catalog interface {
	schema.Catalog
	schema.Lister
	io.Closer
}

// Open opens the backend named by driver.
func Open(ctx context.Context, driver Driver, dsn string) (Catalog, error) {
	switch driver {
	case Embedded:
		cat, err := embedded.NewCatalog()
		if err != nil {
			return nil, err
		}
		return cat, nil
	case Files:
		if dsn == "" {
			return nil, errors.NewConfigError("catalog", "files driver needs a directory in catalog.dsn", nil)
		}
		cat, err := files.NewCatalog(dsn)
		if err != nil {
			return nil, err
		}
		return cat, nil
	case Memory:
		return memory.NewCatalog(), nil
	case Postgres:
		cat, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return cat, nil
	default:
		_, err := ParseDriver(string(driver))
		return nil, err
	}
}
