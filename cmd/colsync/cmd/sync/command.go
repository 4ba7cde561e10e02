// Package sync provides the sync command implementation.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/cmd/application"
	applycmd "github.com/agentstation/colsync/cmd/colsync/cmd/apply"
	"github.com/agentstation/colsync/internal/cmd/output"
	"github.com/agentstation/colsync/internal/review"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Flags holds flags for the sync command.
type Flags struct {
	Interactive bool
	Edit        bool
	Yes         bool
	DryRun      bool
	MaxDistance int
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync SOURCE TARGET",
		GroupID: "core",
		Short:   "Plan, review and apply in one step",
		Args:    cobra.ExactArgs(2),
		Long: `Sync runs the whole reconciliation: it plans the column pairing, lets you
review the proposals, asks for confirmation and writes the approved
descriptions to the target table.

Review happens in an interactive form with --interactive, in your $EDITOR
with --edit, and is skipped otherwise (every proposal is taken as is).`,
		Example: `  colsync sync demo.main.customers demo.main.users
  colsync sync demo.main.customers demo.main.users --interactive
  colsync sync prod.crm.customers prod.crm.users --edit --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if flags.Interactive && flags.Edit {
				return errors.NewValidationError("interactive", true, "cannot be combined with --edit")
			}
			source, target := schema.TableID(args[0]), schema.TableID(args[1])

			cat, err := app.Catalog(ctx)
			if err != nil {
				return err
			}

			opts := app.ClientOptions()
			if cmd.Flags().Changed("max-distance") {
				opts = append(opts, colsync.WithMaxDistance(flags.MaxDistance))
			}
			if flags.DryRun {
				opts = append(opts, colsync.WithApplyOptions(apply.WithDryRun(true)))
			}
			client, err := colsync.New(cat, cat, opts...)
			if err != nil {
				return err
			}
			applycmd.Progress(client, app)

			session, err := client.Plan(ctx, source, target)
			if err != nil {
				return err
			}

			rows, err := review.Run(ctx, Surface(flags, session), session.Rows())
			if err != nil {
				return err
			}
			if err := session.Replace(rows); err != nil {
				return err
			}

			if !flags.Interactive && !flags.Yes && output.IsTable(app.OutputFormat()) {
				if err := output.Print(cmd.OutOrStdout(), app.OutputFormat(), session.Rows()); err != nil {
					return err
				}
			}

			return applycmd.Run(cmd, app, session, flags.Yes || flags.DryRun)
		},
	}

	cmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "review each proposal in an interactive form")
	cmd.Flags().BoolVarP(&flags.Edit, "edit", "e", false, "review the proposals as YAML in $EDITOR")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().IntVar(&flags.MaxDistance, "max-distance", 0, "largest edit distance at which two column names match (default from config, 3)")

	return cmd
}

// Surface selects the review surface for the flags.
func Surface(flags *Flags, session *colsync.Session) review.Surface {
	switch {
	case flags.Interactive:
		return &review.FormSurface{}
	case flags.Edit:
		return &review.FileSurface{
			Source:      session.Source(),
			Target:      session.Target(),
			MaxDistance: session.Document().MaxDistance,
		}
	default:
		return review.AutoSurface{}
	}
}
