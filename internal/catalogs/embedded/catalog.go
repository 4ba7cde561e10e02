// Package embedded provides the built-in demo catalog: four tables under
// catalog "demo", schema "main", loaded from YAML compiled into the binary.
// Writes go to memory and are lost when the process exits.
package embedded

import (
	"github.com/agentstation/colsync/internal/catalogs/base"
	"github.com/agentstation/colsync/internal/catalogs/memory"
	embeddedTables "github.com/agentstation/colsync/internal/embedded"
)

// NewCatalog loads the demo tables into a fresh in-memory catalog.
func NewCatalog() (*memory.Catalog, error) {
	tables, err := base.Load(embeddedTables.FS, embeddedTables.Root)
	if err != nil {
		return nil, err
	}
	cat := memory.NewCatalog()
	for _, t := range tables {
		if err := cat.SetTable(t.Snapshot); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
