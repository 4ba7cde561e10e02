package table_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/colsync/internal/cmd/emoji"
	"github.com/agentstation/colsync/internal/cmd/table"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/schema"
)

func TestDecisionsToTableData(t *testing.T) {
	rows := []decision.Row{
		{Approved: true, TargetColumn: "firstname", SourceColumn: "first_name", SourceDescription: "Customer first name", ProposedDescription: "Customer first name", Distance: 1, Matched: true},
		{Approved: true, TargetColumn: "status", CurrentDescription: "Status", ProposedDescription: "Status", Distance: -1},
		{Approved: false, TargetColumn: "user_id", Distance: -1},
	}

	data := table.DecisionsToTableData(rows, false)
	assert.Len(t, data.Headers, 5)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{emoji.Success, "firstname", "first_name", "", "Customer first name"}, data.Rows[0])
	assert.Equal(t, emoji.Unchanged, data.Rows[1][0])
	assert.Equal(t, emoji.Skipped, data.Rows[2][0])
	assert.Equal(t, "-", data.Rows[2][2])

	wide := table.DecisionsToTableData(rows, true)
	assert.Len(t, wide.Headers, 7)
	assert.Equal(t, "1", wide.Rows[0][6])
	assert.Equal(t, "-", wide.Rows[1][6])
	assert.Len(t, wide.ColumnAlignment, 7)
}

func TestResultToTableData(t *testing.T) {
	result := &apply.Result{Table: "a.b.c", Rows: []apply.RowResult{
		{Column: "x", Outcome: apply.OutcomeApplied, Description: "X"},
		{Column: "y", Outcome: apply.OutcomeFailed, Reason: "denied"},
	}}
	data := table.ResultToTableData(result)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{emoji.Success, "x", "applied", "X", ""}, data.Rows[0])
	assert.Equal(t, emoji.Error, data.Rows[1][0])
	assert.Equal(t, "denied", data.Rows[1][4])
}

func TestTablesToTableData(t *testing.T) {
	data := table.TablesToTableData([]schema.TableID{"demo.main.users", "broken"})
	assert.Equal(t, []string{"demo.main.users", "demo", "main", "users"}, data.Rows[0])
	assert.Equal(t, "broken", data.Rows[1][0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", table.Truncate("short"))
	long := strings.Repeat("é", 100)
	got := table.Truncate(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 60, len([]rune(got)))
}
