// Package apply commits approved decision rows to the target catalog.
//
// Only approved rows whose proposal differs from the current description are
// written. Each write is independent: a failed row is recorded in the result
// and never stops the remaining rows, so a partial application is a normal
// outcome. The engine writes only through the Writer and table it is given.
package apply

import (
	"context"

	"github.com/agentstation/utc"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

// Engine applies decision rows.
type Engine struct {
	opts *options
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{opts: o}, nil
}

// DryRun reports whether the engine skips writes.
func (e *Engine) DryRun() bool {
	return e.opts.dryRun
}

// Apply writes every approved, changed row to table through w and returns
// one RowResult per input row, in input order.
func (e *Engine) Apply(ctx context.Context, table schema.TableID, rows []decision.Row, w schema.Writer) *Result {
	ctx = logging.WithTable(ctx, table.String())
	logger := logging.FromContext(ctx)

	result := newResult(table, len(rows), e.opts.dryRun)

	var todo []int
	for i, r := range rows {
		result.Rows[i] = RowResult{Column: r.TargetColumn, Description: r.ProposedDescription}
		switch {
		case !r.Approved:
			result.Rows[i].Outcome = OutcomeSkipped
			result.Rows[i].Reason = "not approved"
		case e.opts.skipUnchanged && !r.Changed():
			result.Rows[i].Outcome = OutcomeUnchanged
			result.Rows[i].Reason = "description already up to date"
		case e.opts.dryRun:
			result.Rows[i].Outcome = OutcomePlanned
		default:
			todo = append(todo, i)
		}
	}

	if len(todo) > 0 && w == nil {
		for _, i := range todo {
			result.fail(i, errors.NewValidationError("writer", nil, "no catalog writer configured"))
		}
		todo = nil
	}

	g := new(errgroup.Group)
	g.SetLimit(e.opts.concurrency)
	for _, i := range todo {
		row := rows[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				result.fail(i, errors.WrapWrite(table.String(), row.TargetColumn, err))
				return nil
			}
			rowCtx := logging.WithColumn(ctx, row.TargetColumn)
			log := logging.FromContext(rowCtx)
			err := w.SetColumnDescription(rowCtx, table, row.TargetColumn, row.ProposedDescription)
			if err != nil {
				result.fail(i, errors.WrapWrite(table.String(), row.TargetColumn, err))
				log.Warn().Err(err).Msg("column update failed")
				return nil
			}
			result.Rows[i].Outcome = OutcomeApplied
			log.Debug().Msg("column description updated")
			return nil
		})
	}
	_ = g.Wait() // row errors are recorded in the result

	result.finalize()

	logger.Info().
		Int("applied", result.Count(OutcomeApplied)).
		Int("failed", result.Count(OutcomeFailed)).
		Int("skipped", result.Count(OutcomeSkipped)).
		Int("unchanged", result.Count(OutcomeUnchanged)).
		Bool("dry_run", result.DryRun).
		Msg("apply finished")

	return result
}

func newResult(table schema.TableID, n int, dryRun bool) *Result {
	return &Result{
		Table:     table,
		Rows:      make([]RowResult, n),
		DryRun:    dryRun,
		StartedAt: utc.Now(),
	}
}
