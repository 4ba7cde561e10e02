// Package review provides the surfaces through which a person inspects and
// edits decision rows before they are applied.
package review

import (
	"context"

	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/logging"
)

// Surface presents decision rows and returns the edited rows.
// Implementations must keep one row per target column in the original order.
type Surface interface {
	Review(ctx context.Context, rows []decision.Row) ([]decision.Row, error)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(ctx context.Context, rows []decision.Row) ([]decision.Row, error)

// Review implements Surface.
func (f SurfaceFunc) Review(ctx context.Context, rows []decision.Row) ([]decision.Row, error) {
	return f(ctx, rows)
}

// AutoSurface accepts every row as proposed.
type AutoSurface struct{}

// Review returns a copy of rows unchanged.
func (AutoSurface) Review(ctx context.Context, rows []decision.Row) ([]decision.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Int("rows", len(rows)).
		Msg("Accepting proposals without review")
	return append([]decision.Row(nil), rows...), nil
}

// Run passes rows through s and verifies the surface kept the row set intact.
func Run(ctx context.Context, s Surface, rows []decision.Row) ([]decision.Row, error) {
	edited, err := s.Review(ctx, rows)
	if err != nil {
		return nil, err
	}
	if err := decision.Verify(rows, edited); err != nil {
		return nil, err
	}

	if diff := decision.Diff(rows, edited); len(diff) > 0 {
		logging.FromContext(ctx).Info().
			Int("edits", len(diff)).
			Msg("Review changed decisions")
	}
	return edited, nil
}
