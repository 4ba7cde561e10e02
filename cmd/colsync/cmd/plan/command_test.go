package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/colsync/cmd/application"
	"github.com/agentstation/colsync/internal/catalogs"
	"github.com/agentstation/colsync/internal/catalogs/embedded"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
)

func newMock(t *testing.T, format string) *application.Mock {
	t.Helper()
	cat, err := embedded.NewCatalog()
	require.NoError(t, err)
	return &application.Mock{
		CatalogFunc:      func(context.Context) (catalogs.Catalog, error) { return cat, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlanJSON(t *testing.T) {
	out, err := run(t, newMock(t, "json"), "demo.main.customers", "demo.main.users")
	require.NoError(t, err)

	var doc decision.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Rows, 7)
	assert.Equal(t, "firstname", doc.Rows[1].TargetColumn)
	assert.Equal(t, "first_name", doc.Rows[1].SourceColumn)
	assert.Equal(t, "Customer first name", doc.Rows[1].ProposedDescription)
	assert.False(t, doc.Rows[3].Matched, "email_addr is too far from email")
}

func TestPlanTable(t *testing.T) {
	out, err := run(t, newMock(t, "table"), "demo.main.products", "demo.main.items")
	require.NoError(t, err)
	assert.Contains(t, out, "category_id")
	assert.Contains(t, out, "Price in USD")
	assert.Contains(t, out, "6 columns, 2 matched")
}

func TestPlanMaxDistanceFlag(t *testing.T) {
	out, err := run(t, newMock(t, "json"), "demo.main.products", "demo.main.items", "--max-distance", "0")
	require.NoError(t, err)

	var doc decision.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 0, doc.MaxDistance)
	assert.Equal(t, 1, doc.Stats().Matched, "only price matches exactly")
}

func TestPlanOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan", "decisions.yaml")
	_, err := run(t, newMock(t, "json"), "demo.main.customers", "demo.main.users", "--out", path)
	require.NoError(t, err)

	doc, err := decision.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo.main.users", doc.Target.String())
	assert.Len(t, doc.Rows, 7)
}

func TestPlanErrors(t *testing.T) {
	t.Run("unknown table", func(t *testing.T) {
		_, err := run(t, newMock(t, "json"), "demo.main.nope", "demo.main.users")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("same table", func(t *testing.T) {
		_, err := run(t, newMock(t, "json"), "demo.main.users", "demo.main.users")
		assert.Error(t, err)
	})

	t.Run("missing args", func(t *testing.T) {
		_, err := run(t, newMock(t, "json"), "demo.main.users")
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, newMock(t, "xml"), "demo.main.customers", "demo.main.users")
		assert.Error(t, err)
	})
}
