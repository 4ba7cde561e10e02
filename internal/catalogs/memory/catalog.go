// Package memory provides an in-memory catalog of table column metadata.
// It backs the embedded demo catalog and the tests, and can record every
// write and inject per-column failures.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Write is one accepted SetColumnDescription call.
type Write struct {
	Table       schema.TableID
	Column      string
	Description string
	At          utc.Time
}

type failureKey struct {
	table  schema.TableID
	column string
}

// Catalog is an in-memory, concurrency-safe catalog.
type Catalog struct {
	mu       sync.RWMutex
	tables   map[schema.TableID][]schema.ColumnDescriptor
	readOnly map[schema.TableID]bool
	failures map[failureKey]error
	writes   []Write
}

// Compile-time interface checks.
var (
	_ schema.Catalog = (*Catalog)(nil)
	_ schema.Lister  = (*Catalog)(nil)
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables:   make(map[schema.TableID][]schema.ColumnDescriptor),
		readOnly: make(map[schema.TableID]bool),
		failures: make(map[failureKey]error),
	}
}

// NewCatalogWith creates a catalog preloaded with snapshots.
func NewCatalogWith(snapshots ...schema.Snapshot) (*Catalog, error) {
	c := NewCatalog()
	for _, s := range snapshots {
		if err := c.SetTable(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetTable adds or replaces a table.
func (c *Catalog) SetTable(s schema.Snapshot) error {
	if err := s.Table.Validate(); err != nil {
		return err
	}
	if err := s.Validate(schema.RoleTarget); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[s.Table] = s.Clone().Columns
	return nil
}

// SetReadOnly marks a table as read-only; writes to it fail with ErrReadOnly.
func (c *Catalog) SetReadOnly(table schema.TableID, readOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readOnly[table] = readOnly
}

// FailColumn makes every write to table.column return err. A nil err clears it.
func (c *Catalog) FailColumn(table schema.TableID, column string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := failureKey{table, column}
	if err == nil {
		delete(c.failures, k)
		return
	}
	c.failures[k] = err
}

// ReadSnapshot implements schema.Reader.
func (c *Catalog) ReadSnapshot(ctx context.Context, table schema.TableID) (schema.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return schema.Snapshot{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	cols, ok := c.tables[table]
	if !ok {
		return schema.Snapshot{}, errors.NewSchemaNotFoundError(table.String(), nil)
	}
	return schema.Snapshot{Table: table, Columns: cols}.Clone(), nil
}

// SetColumnDescription implements schema.Writer.
func (c *Catalog) SetColumnDescription(ctx context.Context, table schema.TableID, column, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readOnly[table] {
		return errors.ErrReadOnly
	}
	if err := c.failures[failureKey{table, column}]; err != nil {
		return err
	}
	cols, ok := c.tables[table]
	if !ok {
		return errors.NewSchemaNotFoundError(table.String(), nil)
	}
	for i := range cols {
		if cols[i].Name == column {
			cols[i] = schema.ColumnDescriptor{Name: column, Description: description}
			c.writes = append(c.writes, Write{Table: table, Column: column, Description: description, At: utc.Now()})
			return nil
		}
	}
	return errors.NewNotFoundError("column", table.String()+"."+column)
}

// ListTables implements schema.Lister.
func (c *Catalog) ListTables(ctx context.Context) ([]schema.TableID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]schema.TableID, 0, len(c.tables))
	for id := range c.tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Writes returns a copy of the write log.
func (c *Catalog) Writes() []Write {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Write, len(c.writes))
	copy(out, c.writes)
	return out
}

// WritesTo returns the logged writes for one table.
func (c *Catalog) WritesTo(table schema.TableID) []Write {
	var out []Write
	for _, w := range c.Writes() {
		if w.Table == table {
			out = append(out, w)
		}
	}
	return out
}

// Close implements io.Closer.
func (c *Catalog) Close() error { return nil }
