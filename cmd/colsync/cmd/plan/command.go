// Package plan provides the plan command implementation.
package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/cmd/application"
	"github.com/agentstation/colsync/internal/cmd/output"
	"github.com/agentstation/colsync/pkg/schema"
)

// Flags holds flags for the plan command.
type Flags struct {
	MaxDistance int
	Out         string
}

// NewCommand creates the plan command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "plan SOURCE TARGET",
		GroupID: "core",
		Short:   "Match columns and propose descriptions",
		Args:    cobra.ExactArgs(2),
		Long: `Plan reads both tables, pairs every target column with at most one source
column by name similarity, and proposes a description for each target column.

Nothing is written to the catalog. Use --out to save the decisions as a YAML
file that can be edited and later passed to "colsync apply".`,
		Example: `  colsync plan demo.main.customers demo.main.users
  colsync plan demo.main.products demo.main.items --max-distance 2
  colsync plan prod.crm.customers prod.crm.users --out decisions.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := app.Logger()

			source, target := schema.TableID(args[0]), schema.TableID(args[1])

			cat, err := app.Catalog(ctx)
			if err != nil {
				return err
			}

			opts := app.ClientOptions()
			if cmd.Flags().Changed("max-distance") {
				opts = append(opts, colsync.WithMaxDistance(flags.MaxDistance))
			}
			client, err := colsync.New(cat, schema.NewReadOnly(cat), opts...)
			if err != nil {
				return err
			}

			session, err := client.Plan(ctx, source, target)
			if err != nil {
				return err
			}
			doc := session.Document()

			if flags.Out != "" {
				if err := doc.Save(flags.Out); err != nil {
					return err
				}
				logger.Info().
					Str("path", flags.Out).
					Int("rows", len(doc.Rows)).
					Msg("Decisions saved")
			}

			if err := output.Print(cmd.OutOrStdout(), app.OutputFormat(), doc); err != nil {
				return err
			}
			if output.IsTable(app.OutputFormat()) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), session.Stats())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flags.MaxDistance, "max-distance", 0, "largest edit distance at which two column names match (default from config, 3)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "write the decisions to this YAML file")

	return cmd
}
