package apply

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/schema"
)

// Outcome is what happened to one row.
type Outcome string

const (
	// OutcomeSkipped means the row was not approved.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnchanged means the proposal equals the current description.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomePlanned means the row would be written but this was a dry run.
	OutcomePlanned Outcome = "planned"
	// OutcomeApplied means the catalog accepted the update.
	OutcomeApplied Outcome = "applied"
	// OutcomeFailed means the catalog rejected the update.
	OutcomeFailed Outcome = "failed"
)

// RowResult is the outcome for one target column.
type RowResult struct {
	Column      string  `json:"column" yaml:"column"`
	Description string  `json:"description" yaml:"description"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	Reason      string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err         error   `json:"-" yaml:"-"`
}

// Result is the per-row report of one apply.
type Result struct {
	Table      schema.TableID `json:"table" yaml:"table"`
	Rows       []RowResult    `json:"rows" yaml:"rows"`
	DryRun     bool           `json:"dry_run" yaml:"dry_run"`
	StartedAt  utc.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time       `json:"finished_at" yaml:"finished_at"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
}

// fail records a write failure. Each index is owned by a single goroutine.
func (r *Result) fail(i int, err error) {
	r.Rows[i].Outcome = OutcomeFailed
	r.Rows[i].Err = err
	r.Rows[i].Reason = err.Error()
}

func (r *Result) finalize() {
	r.FinishedAt = utc.Now()
	r.Duration = r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Count returns how many rows had the given outcome.
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, row := range r.Rows {
		if row.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Result) filter(o Outcome) []RowResult {
	var out []RowResult
	for _, row := range r.Rows {
		if row.Outcome == o {
			out = append(out, row)
		}
	}
	return out
}

// Applied returns the rows the catalog accepted.
func (r *Result) Applied() []RowResult { return r.filter(OutcomeApplied) }

// Failed returns the rows the catalog rejected.
func (r *Result) Failed() []RowResult { return r.filter(OutcomeFailed) }

// HasFailures reports whether any row failed.
func (r *Result) HasFailures() bool {
	return r.Count(OutcomeFailed) > 0
}

// Err joins the row failures, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, row := range r.Rows {
		if row.Err != nil {
			errs = append(errs, row.Err)
		}
	}
	return stderrors.Join(errs...)
}

// RetryRows returns the subset of rows whose update failed, ready to be
// passed to Apply again.
func (r *Result) RetryRows(rows []decision.Row) []decision.Row {
	failed := make(map[string]struct{})
	for _, row := range r.Failed() {
		failed[row.Column] = struct{}{}
	}
	var out []decision.Row
	for _, row := range rows {
		if _, ok := failed[row.TargetColumn]; ok {
			out = append(out, row)
		}
	}
	return out
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.DryRun {
		n := r.Count(OutcomePlanned)
		if n == 0 {
			return "Dry run completed. No descriptions to update."
		}
		return fmt.Sprintf("Dry run completed. %d column descriptions would be updated on %s.", n, r.Table)
	}

	applied, failed := r.Count(OutcomeApplied), r.Count(OutcomeFailed)
	if applied == 0 && failed == 0 {
		return "No descriptions to update."
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d updated", applied))
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if n := r.Count(OutcomeSkipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	return fmt.Sprintf("%s: %s", r.Table, strings.Join(parts, ", "))
}
