// Package files provides a catalog backed by a directory of YAML table
// files. Every accepted description update rewrites the file of its table.
package files

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/colsync/internal/catalogs/base"
	"github.com/agentstation/colsync/internal/catalogs/memory"
	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Catalog is a file-backed catalog.
type Catalog struct {
	mu       sync.Mutex
	basePath string
	mem      *memory.Catalog
	paths    map[schema.TableID]string
}

// Compile-time interface checks.
var (
	_ schema.Catalog = (*Catalog)(nil)
	_ schema.Lister  = (*Catalog)(nil)
)

// NewCatalog loads every table file under basePath.
func NewCatalog(basePath string) (*Catalog, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("catalog directory", basePath)
		}
		return nil, errors.WrapIO("stat", basePath, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("catalog.dsn", basePath, "must be a directory")
	}

	tables, err := base.Load(os.DirFS(basePath), ".")
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		basePath: basePath,
		mem:      memory.NewCatalog(),
		paths:    make(map[schema.TableID]string, len(tables)),
	}
	for _, t := range tables {
		if err := c.mem.SetTable(t.Snapshot); err != nil {
			return nil, err
		}
		c.paths[t.Snapshot.Table] = filepath.Join(basePath, filepath.FromSlash(t.Path))
	}
	return c, nil
}

// ReadSnapshot implements schema.Reader.
func (c *Catalog) ReadSnapshot(ctx context.Context, table schema.TableID) (schema.Snapshot, error) {
	return c.mem.ReadSnapshot(ctx, table)
}

// ListTables implements schema.Lister.
func (c *Catalog) ListTables(ctx context.Context) ([]schema.TableID, error) {
	return c.mem.ListTables(ctx)
}

// SetColumnDescription implements schema.Writer. The table file is rewritten
// before the call returns.
func (c *Catalog) SetColumnDescription(ctx context.Context, table schema.TableID, column, description string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mem.SetColumnDescription(ctx, table, column, description); err != nil {
		return err
	}
	snap, err := c.mem.ReadSnapshot(ctx, table)
	if err != nil {
		return err
	}
	data, err := base.MarshalTable(snap)
	if err != nil {
		return err
	}

	path := c.paths[table]
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	return errors.WrapIO("rename", path, os.Rename(tmp, path))
}

// Path returns the directory the catalog was loaded from.
func (c *Catalog) Path() string { return c.basePath }

// Close implements io.Closer.
func (c *Catalog) Close() error { return nil }
