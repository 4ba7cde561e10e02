package apply_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/colsync/internal/catalogs/memory"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

const (
	sourceTable = schema.TableID("demo.main.customers")
	targetTable = schema.TableID("demo.main.users")
)

func setup(t *testing.T) (*memory.Catalog, []decision.Row) {
	t.Helper()
	cat, err := memory.NewCatalogWith(
		schema.Snapshot{Table: sourceTable, Columns: []schema.ColumnDescriptor{
			{Name: "first_name", Description: "Customer first name"},
			{Name: "last_name", Description: "Customer last name"},
		}},
		schema.Snapshot{Table: targetTable, Columns: []schema.ColumnDescriptor{
			{Name: "user_id"},
			{Name: "firstname"},
			{Name: "lastname"},
			{Name: "status", Description: "User status"},
		}},
	)
	require.NoError(t, err)

	rows := []decision.Row{
		{Approved: true, TargetColumn: "user_id", ProposedDescription: "", Distance: -1},
		{Approved: true, TargetColumn: "firstname", SourceColumn: "first_name", SourceDescription: "Customer first name", ProposedDescription: "Customer first name", Distance: 1, Matched: true},
		{Approved: false, TargetColumn: "lastname", SourceColumn: "last_name", SourceDescription: "Customer last name", ProposedDescription: "Customer last name", Distance: 1, Matched: true},
		{Approved: true, TargetColumn: "status", CurrentDescription: "User status", ProposedDescription: "User status", Distance: -1},
	}
	return cat, rows
}

func outcomes(r *apply.Result) []apply.Outcome {
	out := make([]apply.Outcome, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Outcome
	}
	return out
}

func TestApply(t *testing.T) {
	cat, rows := setup(t)
	engine, err := apply.New()
	require.NoError(t, err)

	result := engine.Apply(context.Background(), targetTable, rows, cat)

	assert.Equal(t, []apply.Outcome{
		apply.OutcomeUnchanged,
		apply.OutcomeApplied,
		apply.OutcomeSkipped,
		apply.OutcomeUnchanged,
	}, outcomes(result))
	assert.Equal(t, "not approved", result.Rows[2].Reason)
	assert.False(t, result.HasFailures())
	assert.NoError(t, result.Err())
	assert.Equal(t, "demo.main.users: 1 updated, 1 skipped", result.Summary())

	writes := cat.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, targetTable, writes[0].Table)
	assert.Equal(t, "firstname", writes[0].Column)
	assert.Empty(t, cat.WritesTo(sourceTable), "source is never written")

	snap, err := cat.ReadSnapshot(context.Background(), targetTable)
	require.NoError(t, err)
	col, _ := snap.Column("lastname")
	assert.Empty(t, col.Description, "unapproved row leaves target untouched")
}

func TestApplyIsIdempotent(t *testing.T) {
	cat, rows := setup(t)
	engine, err := apply.New()
	require.NoError(t, err)
	ctx := context.Background()

	engine.Apply(ctx, targetTable, rows, cat)
	require.Len(t, cat.Writes(), 1)

	// Rebuild rows from the updated target, as a new session would.
	snap, err := cat.ReadSnapshot(ctx, targetTable)
	require.NoError(t, err)
	for i := range rows {
		col, _ := snap.Column(rows[i].TargetColumn)
		rows[i].CurrentDescription = col.Description
	}

	second := engine.Apply(ctx, targetTable, rows, cat)
	assert.Equal(t, 0, second.Count(apply.OutcomeApplied))
	assert.Len(t, cat.Writes(), 1, "second apply writes nothing")
	assert.Equal(t, "No descriptions to update.", second.Summary())
}

func TestApplyWithoutSkipUnchanged(t *testing.T) {
	cat, rows := setup(t)
	engine, err := apply.New(apply.WithSkipUnchanged(false))
	require.NoError(t, err)

	result := engine.Apply(context.Background(), targetTable, rows, cat)
	assert.Equal(t, 3, result.Count(apply.OutcomeApplied))
	assert.Len(t, cat.Writes(), 3)
}

func TestApplyPartialFailure(t *testing.T) {
	cat, rows := setup(t)
	rows[2].Approved = true
	boom := stderrors.New("permission denied")
	cat.FailColumn(targetTable, "firstname", boom)

	engine, err := apply.New()
	require.NoError(t, err)
	result := engine.Apply(context.Background(), targetTable, rows, cat)

	require.True(t, result.HasFailures())
	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "firstname", failed[0].Column)
	assert.True(t, errors.IsWriteFailure(failed[0].Err))
	assert.ErrorIs(t, failed[0].Err, boom)
	assert.ErrorIs(t, result.Err(), boom)

	applied := result.Applied()
	require.Len(t, applied, 1)
	assert.Equal(t, "lastname", applied[0].Column, "a failure does not block other rows")
	assert.Equal(t, "demo.main.users: 1 updated, 1 failed", result.Summary())

	retry := result.RetryRows(rows)
	require.Len(t, retry, 1)
	assert.Equal(t, "firstname", retry[0].TargetColumn)

	cat.FailColumn(targetTable, "firstname", nil)
	again := engine.Apply(context.Background(), targetTable, retry, cat)
	assert.False(t, again.HasFailures())
	assert.Equal(t, 1, again.Count(apply.OutcomeApplied))
}

func TestApplyDryRun(t *testing.T) {
	cat, rows := setup(t)
	engine, err := apply.New(apply.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, engine.DryRun())

	result := engine.Apply(context.Background(), targetTable, rows, cat)
	assert.Equal(t, 1, result.Count(apply.OutcomePlanned))
	assert.Empty(t, cat.Writes())
	assert.Contains(t, result.Summary(), "1 column descriptions would be updated")
}

func TestApplyCanceledContext(t *testing.T) {
	cat, rows := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine, err := apply.New()
	require.NoError(t, err)
	result := engine.Apply(ctx, targetTable, rows, cat)

	assert.Equal(t, 1, result.Count(apply.OutcomeFailed))
	assert.ErrorIs(t, result.Err(), context.Canceled)
	assert.Empty(t, cat.Writes())
}

func TestApplyNilWriter(t *testing.T) {
	_, rows := setup(t)
	engine, err := apply.New()
	require.NoError(t, err)

	result := engine.Apply(context.Background(), targetTable, rows, nil)
	assert.Equal(t, 1, result.Count(apply.OutcomeFailed))
	assert.True(t, errors.IsValidationError(result.Err()))
}

func TestApplyConcurrent(t *testing.T) {
	var cols []schema.ColumnDescriptor
	var rows []decision.Row
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("col_%02d", i)
		cols = append(cols, schema.ColumnDescriptor{Name: name})
		rows = append(rows, decision.Row{Approved: true, TargetColumn: name, ProposedDescription: "desc " + name})
	}
	cat, err := memory.NewCatalogWith(schema.Snapshot{Table: targetTable, Columns: cols})
	require.NoError(t, err)
	cat.FailColumn(targetTable, "col_07", stderrors.New("locked"))

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	engine, err := apply.New(apply.WithConcurrency(8))
	require.NoError(t, err)
	result := engine.Apply(ctx, targetTable, rows, cat)

	assert.Equal(t, 39, result.Count(apply.OutcomeApplied))
	assert.Equal(t, 1, result.Count(apply.OutcomeFailed))
	for i, r := range result.Rows {
		assert.Equal(t, rows[i].TargetColumn, r.Column, "results keep input order")
	}
	assert.Len(t, cat.Writes(), 39)
	tl.AssertContains(t, "column update failed")
	tl.AssertContains(t, `"column":"col_07"`)
	tl.AssertContains(t, "apply finished")
}

func TestOptionsValidation(t *testing.T) {
	_, err := apply.New(apply.WithConcurrency(0))
	assert.True(t, errors.IsValidationError(err))
}
