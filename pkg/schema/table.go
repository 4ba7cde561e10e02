package schema

import (
	"strings"

	"github.com/agentstation/colsync/pkg/errors"
)

// TableID is a fully qualified catalog.schema.table identifier.
// It is opaque to the engine; adapters call Parse when they need the parts.
type TableID string

// TableName holds the three parts of a TableID.
type TableName struct {
	Catalog string
	Schema  string
	Table   string
}

// NewTableID joins the three identifier parts.
func NewTableID(catalog, schema, table string) TableID {
	return TableID(catalog + "." + schema + "." + table)
}

// String returns the identifier unchanged.
func (id TableID) String() string {
	return string(id)
}

// Parse splits the identifier into catalog, schema and table.
func (id TableID) Parse() (TableName, error) {
	parts := strings.Split(string(id), ".")
	if len(parts) != 3 {
		return TableName{}, &errors.ParseError{
			Format:  "identifier",
			Message: "table " + string(id) + " must have the form catalog.schema.table",
			Err:     errors.ErrInvalidInput,
		}
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return TableName{}, &errors.ParseError{
				Format:  "identifier",
				Message: "table " + string(id) + " has an empty part",
				Err:     errors.ErrInvalidInput,
			}
		}
	}
	return TableName{Catalog: parts[0], Schema: parts[1], Table: parts[2]}, nil
}

// Validate reports whether the identifier parses.
func (id TableID) Validate() error {
	_, err := id.Parse()
	return err
}

// ID reassembles the parts.
func (n TableName) ID() TableID {
	return NewTableID(n.Catalog, n.Schema, n.Table)
}
