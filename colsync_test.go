package colsync_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/internal/catalogs/memory"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

const (
	customers = schema.TableID("demo.main.customers")
	users     = schema.TableID("demo.main.users")
)

func newCatalog(t *testing.T) *memory.Catalog {
	t.Helper()
	cat, err := memory.NewCatalogWith(
		schema.Snapshot{Table: customers, Columns: []schema.ColumnDescriptor{
			{Name: "customer_id", Description: "Unique customer identifier"},
			{Name: "first_name", Description: "Customer first name"},
			{Name: "last_name", Description: "Customer last name"},
			{Name: "email", Description: "Customer email address"},
		}},
		schema.Snapshot{Table: users, Columns: []schema.ColumnDescriptor{
			{Name: "user_id"},
			{Name: "firstname"},
			{Name: "lastname"},
			{Name: "email"},
			{Name: "status", Description: "Account status"},
		}},
	)
	require.NoError(t, err)
	return cat
}

func newClient(t *testing.T, cat *memory.Catalog, opts ...colsync.Option) *colsync.Client {
	t.Helper()
	client, err := colsync.New(cat, cat, opts...)
	require.NoError(t, err)
	return client
}

func TestSessionLifecycle(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat)
	ctx := context.Background()

	var applied []string
	client.OnRowApplied(func(table schema.TableID, row apply.RowResult) {
		assert.Equal(t, users, table)
		applied = append(applied, row.Column)
	})

	session, err := client.Plan(ctx, customers, users)
	require.NoError(t, err)
	assert.Equal(t, colsync.StateMatched, session.State())
	assert.Equal(t, decision.Stats{Total: 5, Approved: 5, Matched: 3, Changed: 3}, session.Stats())

	require.NoError(t, session.Review(decision.Reject("lastname")))
	assert.Equal(t, colsync.StateReviewed, session.State())

	result, err := session.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, colsync.StateApplied, session.State())
	assert.Same(t, result, session.Result())
	assert.Equal(t, []string{"firstname", "email"}, applied)

	for _, w := range cat.Writes() {
		assert.Equal(t, users, w.Table, "only the target is written")
	}

	_, err = session.Apply(ctx)
	assert.True(t, errors.IsInvalidState(err), "applied is terminal")
	assert.True(t, errors.IsInvalidState(session.Review(decision.Approve("lastname"))))
	assert.True(t, errors.IsInvalidState(session.Match(ctx)))
}

func TestApplyWithoutReview(t *testing.T) {
	cat := newCatalog(t)
	session, err := newClient(t, cat).Plan(context.Background(), customers, users)
	require.NoError(t, err)

	result, err := session.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count(apply.OutcomeApplied))
}

func TestIdleSession(t *testing.T) {
	client := newClient(t, newCatalog(t))
	session, err := client.NewSession(customers, users)
	require.NoError(t, err)
	assert.Equal(t, colsync.StateIdle, session.State())

	assert.True(t, errors.IsInvalidState(session.Review()))
	_, err = session.Apply(context.Background())
	assert.True(t, errors.IsInvalidState(err))
}

func TestPlanErrors(t *testing.T) {
	client := newClient(t, newCatalog(t))
	ctx := context.Background()

	_, err := client.Plan(ctx, customers, "demo.main.missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = client.Plan(ctx, customers, customers)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.Plan(ctx, "customers", users)
	assert.True(t, errors.IsValidationError(err))
}

func TestReadFailureIsSchemaNotFound(t *testing.T) {
	boom := stderrors.New("connection reset")
	client, err := colsync.New(failingReader{err: boom}, nil)
	require.NoError(t, err)

	_, err = client.Plan(context.Background(), customers, users)
	var snf *errors.SchemaNotFoundError
	require.ErrorAs(t, err, &snf)
	assert.Equal(t, customers.String(), snf.Table)
	assert.ErrorIs(t, err, boom)
}

func TestReplace(t *testing.T) {
	session, err := newClient(t, newCatalog(t)).Plan(context.Background(), customers, users)
	require.NoError(t, err)

	rows := session.Rows()
	rows[0].Approved = false
	rows[0].ProposedDescription = "User identifier"
	require.NoError(t, session.Replace(rows))
	assert.Equal(t, "User identifier", session.Rows()[0].ProposedDescription)

	forged := session.Rows()
	forged[1].SourceColumn = "customer_id"
	assert.True(t, errors.IsValidationError(session.Replace(forged)))
}

func TestDryRunKeepsSessionReviewable(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat, colsync.WithApplyOptions(apply.WithDryRun(true)))

	session, err := client.Plan(context.Background(), customers, users)
	require.NoError(t, err)

	result, err := session.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count(apply.OutcomePlanned))
	assert.Empty(t, cat.Writes())
	assert.Equal(t, colsync.StateMatched, session.State())
}

func TestResume(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat)
	ctx := context.Background()

	session, err := client.Plan(ctx, customers, users)
	require.NoError(t, err)
	doc := session.Document()

	// Someone documents firstname by hand after the plan was written.
	require.NoError(t, cat.SetColumnDescription(ctx, users, "firstname", "Customer first name"))
	before := len(cat.Writes())

	resumed, err := client.Resume(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, colsync.StateReviewed, resumed.State())

	result, err := resumed.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, apply.OutcomeUnchanged, result.Rows[1].Outcome)
	assert.Equal(t, 2, result.Count(apply.OutcomeApplied))
	assert.Len(t, cat.Writes(), before+2)
}

func TestResumeMissingColumn(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat)

	doc := decision.NewDocument(customers, users, 3, []decision.Row{{TargetColumn: "gone"}})
	_, err := client.Resume(context.Background(), doc)
	assert.True(t, errors.IsNotFound(err))
}

func TestResumeRequiresEveryTargetColumn(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat)
	ctx := context.Background()

	session, err := client.Plan(ctx, customers, users)
	require.NoError(t, err)
	doc := session.Document()

	// Drop the lastname row, as a hand edit of the plan file might.
	var kept []decision.Row
	for _, r := range doc.Rows {
		if r.TargetColumn != "lastname" {
			kept = append(kept, r)
		}
	}
	doc.Rows = kept

	_, err = client.Resume(ctx, doc)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "lastname")
	assert.Empty(t, cat.Writes())
}

func TestResumeRestoresTargetOrder(t *testing.T) {
	cat := newCatalog(t)
	client := newClient(t, cat)
	ctx := context.Background()

	session, err := client.Plan(ctx, customers, users)
	require.NoError(t, err)
	doc := session.Document()
	doc.Rows[0], doc.Rows[4] = doc.Rows[4], doc.Rows[0]

	resumed, err := client.Resume(ctx, doc)
	require.NoError(t, err)
	rows := resumed.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "user_id", rows[0].TargetColumn)
	assert.Equal(t, "status", rows[4].TargetColumn)
}

func TestOptions(t *testing.T) {
	cat := newCatalog(t)

	_, err := colsync.New(cat, cat, colsync.WithMaxDistance(-1))
	assert.True(t, errors.IsValidationError(err))

	_, err = colsync.New(cat, cat, colsync.WithMatchConcurrency(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = colsync.New(cat, cat, colsync.WithApplyOptions(apply.WithConcurrency(-2)))
	assert.True(t, errors.IsValidationError(err))

	_, err = colsync.New(nil, cat)
	assert.True(t, errors.IsValidationError(err))

	session, err := newClient(t, cat, colsync.WithMaxDistance(0)).Plan(context.Background(), customers, users)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Stats().Matched, "only the exact email match survives a zero threshold")
}

type failingReader struct{ err error }

func (f failingReader) ReadSnapshot(context.Context, schema.TableID) (schema.Snapshot, error) {
	return schema.Snapshot{}, f.err
}
