package embedded_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/colsync/internal/catalogs/embedded"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/matcher"
	"github.com/agentstation/colsync/pkg/schema"
)

func TestNewCatalog(t *testing.T) {
	cat, err := embedded.NewCatalog()
	require.NoError(t, err)

	ids, err := cat.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []schema.TableID{
		"demo.main.customers",
		"demo.main.items",
		"demo.main.products",
		"demo.main.users",
	}, ids)

	users, err := cat.ReadSnapshot(context.Background(), "demo.main.users")
	require.NoError(t, err)
	assert.Len(t, users.Columns, 7)
	status, ok := users.Column("status")
	require.True(t, ok)
	assert.Equal(t, "Account status (active/inactive)", status.Description)
}

func TestDemoPairs(t *testing.T) {
	cat, err := embedded.NewCatalog()
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		source, target schema.TableID
		wantMatched    map[string]string
	}{
		{
			source:      "demo.main.customers",
			target:      "demo.main.users",
			wantMatched: map[string]string{"firstname": "first_name", "lastname": "last_name"},
		},
		{
			source:      "demo.main.products",
			target:      "demo.main.items",
			wantMatched: map[string]string{"price": "price", "category_id": "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			src, err := cat.ReadSnapshot(ctx, tt.source)
			require.NoError(t, err)
			tgt, err := cat.ReadSnapshot(ctx, tt.target)
			require.NoError(t, err)

			pairs, err := matcher.Match(src, tgt, 3)
			require.NoError(t, err)

			got := map[string]string{}
			for _, p := range pairs {
				if p.Matched {
					got[p.Target] = p.Source
				}
			}
			assert.Equal(t, tt.wantMatched, got)

			rows, err := decision.Build(pairs, tgt, src)
			require.NoError(t, err)
			assert.Len(t, rows, len(tgt.Columns))
		})
	}
}

func TestCatalogsAreIndependent(t *testing.T) {
	a, err := embedded.NewCatalog()
	require.NoError(t, err)
	b, err := embedded.NewCatalog()
	require.NoError(t, err)

	require.NoError(t, a.SetColumnDescription(context.Background(), "demo.main.users", "user_id", "x"))
	snap, err := b.ReadSnapshot(context.Background(), "demo.main.users")
	require.NoError(t, err)
	assert.Empty(t, snap.Columns[0].Description)
}
