// Package base holds the YAML table format shared by the embedded and
// file-backed catalogs.
package base

import (
	"github.com/goccy/go-yaml"

	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// ParseTable decodes one table file. path is used in error messages.
func ParseTable(data []byte, path string) (schema.Snapshot, error) {
	var snap schema.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return schema.Snapshot{}, errors.WrapParse("yaml", path, err)
	}
	if err := snap.Table.Validate(); err != nil {
		return schema.Snapshot{}, errors.NewParseError("yaml", path, err.Error(), err)
	}
	if err := snap.Validate(schema.RoleTarget); err != nil {
		return schema.Snapshot{}, errors.NewParseError("yaml", path, err.Error(), err)
	}
	return snap, nil
}

// MarshalTable encodes a snapshot in the table file format.
func MarshalTable(snap schema.Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, errors.WrapParse("yaml", string(snap.Table), err)
	}
	return data, nil
}
