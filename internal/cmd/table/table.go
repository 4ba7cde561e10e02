// Package table converts domain values into rows for table output.
package table

import (
	"strconv"
	"unicode/utf8"

	"github.com/agentstation/colsync/internal/cmd/emoji"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/schema"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// DecisionsToTableData converts decision rows to table format.
// The wide form adds the source description and the edit distance.
func DecisionsToTableData(rows []decision.Row, wide bool) Data {
	headers := []string{"Apply", "Target Column", "Source Column", "Current", "Proposed"}
	align := []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Source Description", "Distance")
		align = append(align, AlignLeft, AlignRight)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		mark := emoji.Skipped
		switch {
		case r.Pending():
			mark = emoji.Success
		case r.Approved:
			mark = emoji.Unchanged
		}
		source := r.SourceColumn
		if !r.Matched {
			source = "-"
		}

		row := []string{mark, r.TargetColumn, source, Truncate(r.CurrentDescription), Truncate(r.ProposedDescription)}
		if wide {
			dist := "-"
			if r.Matched {
				dist = strconv.Itoa(r.Distance)
			}
			row = append(row, Truncate(r.SourceDescription), dist)
		}
		out = append(out, row)
	}

	return Data{Headers: headers, Rows: out, ColumnAlignment: align}
}

// ResultToTableData converts an apply result to table format.
func ResultToTableData(result *apply.Result) Data {
	out := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		out = append(out, []string{OutcomeSymbol(r.Outcome), r.Column, string(r.Outcome), Truncate(r.Description), r.Reason})
	}
	return Data{
		Headers:         []string{"", "Column", "Outcome", "Description", "Reason"},
		Rows:            out,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

// TablesToTableData converts table identifiers to table format.
func TablesToTableData(ids []schema.TableID) Data {
	out := make([][]string, 0, len(ids))
	for _, id := range ids {
		name, err := id.Parse()
		if err != nil {
			out = append(out, []string{id.String(), "", "", ""})
			continue
		}
		out = append(out, []string{id.String(), name.Catalog, name.Schema, name.Table})
	}
	return Data{Headers: []string{"Table", "Catalog", "Schema", "Name"}, Rows: out}
}

// OutcomeSymbol returns the status symbol for an apply outcome.
func OutcomeSymbol(o apply.Outcome) string {
	switch o {
	case apply.OutcomeApplied:
		return emoji.Success
	case apply.OutcomeFailed:
		return emoji.Error
	case apply.OutcomeUnchanged:
		return emoji.Unchanged
	case apply.OutcomePlanned:
		return emoji.Planned
	default:
		return emoji.Skipped
	}
}

// Truncate shortens long descriptions for table cells.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= constants.TruncateWidth {
		return s
	}
	r := []rune(s)
	return string(r[:constants.TruncateWidth-3]) + "..."
}
