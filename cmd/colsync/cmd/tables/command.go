// Package tables provides the tables command implementation.
package tables

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/colsync/cmd/application"
	"github.com/agentstation/colsync/internal/cmd/output"
	"github.com/agentstation/colsync/internal/pattern"
)

// NewCommand creates the tables command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "tables",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "List tables in the configured catalog",
		Args:    cobra.NoArgs,
		Example: `  colsync tables
  colsync tables --filter "*.users"
  colsync tables --filter "^prod\\.crm\\."
  colsync tables --driver postgres --dsn "postgres://localhost/warehouse?sslmode=disable"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cat, err := app.Catalog(ctx)
			if err != nil {
				return err
			}
			ids, err := cat.ListTables(ctx)
			if err != nil {
				return err
			}

			if filter != "" {
				p, err := pattern.Compile(filter, pattern.Auto)
				if err != nil {
					return err
				}
				ids = p.Tables(ids)
			}

			app.Logger().Debug().Int("tables", len(ids)).Msg("Listed tables")
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), ids)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list tables matching this glob or regex")

	return cmd
}
