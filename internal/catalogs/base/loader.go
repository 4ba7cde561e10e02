package base

import (
	"io/fs"
	"strings"

	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Table is a parsed table file and where it came from.
type Table struct {
	Path     string
	Snapshot schema.Snapshot
}

// Load walks root in fsys and parses every .yaml file as a table.
// Two files declaring the same table is an error.
func Load(fsys fs.FS, root string) ([]Table, error) {
	var tables []Table
	seen := make(map[schema.TableID]string)

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".yaml") {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.WrapIO("read", p, err)
		}
		snap, err := ParseTable(data, p)
		if err != nil {
			return err
		}
		if prev, ok := seen[snap.Table]; ok {
			return errors.NewParseError("yaml", p, "table "+snap.Table.String()+" already defined in "+prev, errors.ErrDuplicate)
		}
		seen[snap.Table] = p
		tables = append(tables, Table{Path: p, Snapshot: snap})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// FileName returns the default file name for a table.
func FileName(id schema.TableID) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(id.String()) + ".yaml"
}
