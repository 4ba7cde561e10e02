package review

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/decision"
)

// FormSurface reviews rows in an interactive terminal form.
// Each row gets an approval toggle and an editable proposal.
type FormSurface struct {
	// Accessible switches the form to plain prompts for screen readers.
	Accessible bool
}

// Review implements Surface.
func (f *FormSurface) Review(ctx context.Context, rows []decision.Row) ([]decision.Row, error) {
	out := append([]decision.Row(nil), rows...)
	if len(out) == 0 {
		return out, nil
	}

	groups := make([]*huh.Group, 0, len(out))
	for i := range out {
		groups = append(groups, rowGroup(&out[i]))
	}

	form := huh.NewForm(groups...).WithAccessible(f.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func rowGroup(r *decision.Row) *huh.Group {
	title := r.TargetColumn
	if r.Matched {
		title = fmt.Sprintf("%s  <-  %s (distance %d)", r.TargetColumn, r.SourceColumn, r.Distance)
	}

	current := r.CurrentDescription
	if current == "" {
		current = "(none)"
	}

	return huh.NewGroup(
		huh.NewNote().
			Title(title).
			Description("Current: "+current),
		huh.NewInput().
			Title("Description").
			CharLimit(constants.MaxDescriptionLength).
			Value(&r.ProposedDescription),
		huh.NewConfirm().
			Title("Apply this description?").
			Affirmative("Yes").
			Negative("No").
			Value(&r.Approved),
	)
}
