// Package decision builds and transforms the decision set: one row per
// target column holding the match, both current descriptions, the proposed
// description and whether the proposal is approved.
//
// Review is a pure transform. Rows are values and every function here
// returns a new slice instead of mutating its input.
package decision

import (
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/matcher"
	"github.com/agentstation/colsync/pkg/merger"
	"github.com/agentstation/colsync/pkg/schema"
)

// Row is the reviewable decision for one target column.
// Only Approved and ProposedDescription change during review.
type Row struct {
	Approved            bool   `json:"approved" yaml:"approved"`
	TargetColumn        string `json:"target_column" yaml:"target_column"`
	CurrentDescription  string `json:"current_description" yaml:"current_description"`
	SourceColumn        string `json:"source_column,omitempty" yaml:"source_column,omitempty"`
	SourceDescription   string `json:"source_description,omitempty" yaml:"source_description,omitempty"`
	ProposedDescription string `json:"proposed_description" yaml:"proposed_description"`
	Distance            int    `json:"distance" yaml:"distance"`
	Matched             bool   `json:"matched" yaml:"matched"`
}

// Changed reports whether applying the row would alter the target.
func (r Row) Changed() bool {
	return r.ProposedDescription != r.CurrentDescription
}

// Pending reports whether the row is approved and would alter the target.
func (r Row) Pending() bool {
	return r.Approved && r.Changed()
}

// Build creates one approved row per match pair, in pair order.
// Every pair must name columns present in the snapshots.
func Build(matches []matcher.MatchPair, target, source schema.Snapshot) ([]Row, error) {
	targets := index(target)
	sources := index(source)

	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		tcol, ok := targets[m.Target]
		if !ok {
			return nil, errors.NewNotFoundError("target column", m.Target)
		}

		row := Row{
			Approved:           true,
			TargetColumn:       tcol.Name,
			CurrentDescription: tcol.Description,
			Distance:           matcher.NoDistance,
		}

		var scol *schema.ColumnDescriptor
		if m.Matched {
			s, ok := sources[m.Source]
			if !ok {
				return nil, errors.NewNotFoundError("source column", m.Source)
			}
			scol = &s
			row.Matched = true
			row.SourceColumn = s.Name
			row.SourceDescription = s.Description
			row.Distance = m.Distance
		}

		row.ProposedDescription = merger.Propose(tcol, scol)
		rows = append(rows, row)
	}
	return rows, nil
}

func index(s schema.Snapshot) map[string]schema.ColumnDescriptor {
	m := make(map[string]schema.ColumnDescriptor, len(s.Columns))
	for _, c := range s.Columns {
		m[c.Name] = c
	}
	return m
}

// Pending returns the rows that an apply would write.
func Pending(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if r.Pending() {
			out = append(out, r)
		}
	}
	return out
}
