package schema

import (
	"context"

	"github.com/agentstation/colsync/pkg/errors"
)

// NewReadOnly wraps a reader so that it satisfies Catalog while refusing
// every write with errors.ErrReadOnly. The source side of a session is always
// wrapped this way.
//
// Example:
//
//	src := schema.NewReadOnly(catalog)
//	err := src.SetColumnDescription(ctx, id, "email", "x") // errors.ErrReadOnly
func NewReadOnly(r Reader) Catalog {
	return &readonly{source: r}
}

// Compile-time interface check.
var _ Catalog = (*readonly)(nil)

type readonly struct {
	source Reader
}

// ReadSnapshot implements Reader.
func (r *readonly) ReadSnapshot(ctx context.Context, table TableID) (Snapshot, error) {
	return r.source.ReadSnapshot(ctx, table)
}

// SetColumnDescription implements Writer.
func (r *readonly) SetColumnDescription(_ context.Context, _ TableID, _, _ string) error {
	return errors.ErrReadOnly
}
