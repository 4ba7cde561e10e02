// Package schema defines the column metadata model shared by the matcher,
// the decision set and the catalog adapters, together with the Reader and
// Writer ports that catalogs implement.
package schema

import (
	"context"

	"github.com/agentstation/colsync/pkg/errors"
)

// ColumnDescriptor is one column of a table snapshot.
// Descriptors are values: they are replaced, never mutated.
type ColumnDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasDescription reports whether the descriptor carries a non-empty description.
// Whitespace is content: a comment of "  " is still a description.
func (c ColumnDescriptor) HasDescription() bool {
	return c.Description != ""
}

// Snapshot is the ordered list of columns read from one table at one point in time.
type Snapshot struct {
	Table   TableID            `json:"table" yaml:"table"`
	Columns []ColumnDescriptor `json:"columns" yaml:"columns"`
}

// Role names the side a snapshot plays in a reconciliation.
type Role string

const (
	// RoleSource is the read-only side descriptions are borrowed from.
	RoleSource Role = "source"
	// RoleTarget is the side whose descriptions are written.
	RoleTarget Role = "target"
)

// Validate checks that column names are unique within the snapshot.
// Names are compared byte for byte.
func (s Snapshot) Validate(role Role) error {
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if _, ok := seen[c.Name]; ok {
			return errors.NewDuplicateColumnError(string(role), c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Column returns the descriptor with the given name.
func (s Snapshot) Column(name string) (ColumnDescriptor, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// Names returns the column names in snapshot order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cols := make([]ColumnDescriptor, len(s.Columns))
	copy(cols, s.Columns)
	return Snapshot{Table: s.Table, Columns: cols}
}

// Reader loads column snapshots from a catalog.
type Reader interface {
	ReadSnapshot(ctx context.Context, table TableID) (Snapshot, error)
}

// Writer persists a column description. Implementations must be idempotent:
// writing the value a column already has is not an error.
type Writer interface {
	SetColumnDescription(ctx context.Context, table TableID, column, description string) error
}

// Lister is implemented by catalogs that can enumerate their tables.
type Lister interface {
	ListTables(ctx context.Context) ([]TableID, error)
}

// Catalog is a readable and writable catalog.
type Catalog interface {
	Reader
	Writer
}
