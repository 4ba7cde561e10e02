package decision

import (
	"fmt"
	"unicode/utf8"

	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
)

// Edit is one reviewer decision about a target column. Nil fields are left
// as they are.
type Edit struct {
	Column   string  `json:"column" yaml:"column"`
	Approved *bool   `json:"approved,omitempty" yaml:"approved,omitempty"`
	Proposed *string `json:"proposed,omitempty" yaml:"proposed,omitempty"`
}

// Approve marks a column for update.
func Approve(column string) Edit {
	v := true
	return Edit{Column: column, Approved: &v}
}

// Reject excludes a column from the update.
func Reject(column string) Edit {
	v := false
	return Edit{Column: column, Approved: &v}
}

// Propose overrides the proposed description of a column.
func Propose(column, text string) Edit {
	return Edit{Column: column, Proposed: &text}
}

// Review applies edits to a copy of rows. Edits are applied in order, so a
// later edit of the same column wins. An edit naming an unknown column fails
// the whole review.
func Review(rows []Row, edits []Edit) ([]Row, error) {
	out := make([]Row, len(rows))
	copy(out, rows)

	pos := make(map[string]int, len(out))
	for i, r := range out {
		pos[r.TargetColumn] = i
	}

	for _, e := range edits {
		i, ok := pos[e.Column]
		if !ok {
			return nil, errors.NewNotFoundError("target column", e.Column)
		}
		if e.Approved != nil {
			out[i].Approved = *e.Approved
		}
		if e.Proposed != nil {
			if err := checkDescription(e.Column, *e.Proposed); err != nil {
				return nil, err
			}
			out[i].ProposedDescription = *e.Proposed
		}
	}
	return out, nil
}

// Verify checks that edited is original with only Approved and
// ProposedDescription changed. Review surfaces that hand back whole rows are
// checked with it before their rows are accepted.
func Verify(original, edited []Row) error {
	if len(original) != len(edited) {
		return errors.NewValidationError("rows", len(edited),
			fmt.Sprintf("expected %d rows, got %d", len(original), len(edited)))
	}
	for i := range original {
		o, e := original[i], edited[i]
		if o.TargetColumn != e.TargetColumn {
			return errors.NewValidationError("target_column", e.TargetColumn,
				fmt.Sprintf("row %d must be %q", i+1, o.TargetColumn))
		}
		// Put back the editable fields; everything else must be identical.
		e.Approved = o.Approved
		e.ProposedDescription = o.ProposedDescription
		if e != o {
			return errors.NewValidationError(o.TargetColumn, nil,
				"only approved and proposed_description may be edited")
		}
		if err := checkDescription(o.TargetColumn, edited[i].ProposedDescription); err != nil {
			return err
		}
	}
	return nil
}

// Diff returns the edits that turn original into edited.
// Both slices must satisfy Verify.
func Diff(original, edited []Row) []Edit {
	var edits []Edit
	for i := range original {
		if i >= len(edited) {
			break
		}
		o, e := original[i], edited[i]
		if o.Approved != e.Approved {
			approved := e.Approved
			edits = append(edits, Edit{Column: o.TargetColumn, Approved: &approved})
		}
		if o.ProposedDescription != e.ProposedDescription {
			edits = append(edits, Propose(o.TargetColumn, e.ProposedDescription))
		}
	}
	return edits
}

func checkDescription(column, text string) error {
	if !utf8.ValidString(text) {
		return errors.NewValidationError(column, nil, "description is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(text); n > constants.MaxDescriptionLength {
		return errors.NewValidationError(column, n,
			fmt.Sprintf("description longer than %d characters", constants.MaxDescriptionLength))
	}
	return nil
}
