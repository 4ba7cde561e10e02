// Package apply provides the apply command implementation.
package apply

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/colsync"
	"github.com/agentstation/colsync/cmd/application"
	"github.com/agentstation/colsync/internal/catalogs/script"
	"github.com/agentstation/colsync/internal/cmd/output"
	"github.com/agentstation/colsync/internal/review"
	pkgapply "github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Flags holds flags for the apply command.
type Flags struct {
	DryRun      bool
	Yes         bool
	Script      string
	Dialect     string
	Concurrency int
}

// NewCommand creates the apply command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "apply FILE",
		GroupID: "core",
		Short:   "Write approved descriptions from a decision file",
		Args:    cobra.ExactArgs(1),
		Long: `Apply reads a decision file produced by "colsync plan --out" (and possibly
edited by hand) and writes the approved descriptions to its target table.

The target is re-read first. Rows whose description already matches are
skipped, as are rows that are not approved. With --script the statements are
written to a file instead of being executed.`,
		Example: `  colsync apply decisions.yaml
  colsync apply decisions.yaml --dry-run
  colsync apply decisions.yaml --script comments.sql --dialect databricks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			doc, err := decision.Load(args[0])
			if err != nil {
				return err
			}

			cat, err := app.Catalog(ctx)
			if err != nil {
				return err
			}

			var writer schema.Writer = cat
			if flags.Script != "" {
				w, closeFn, err := openScript(flags.Script, flags.Dialect)
				if err != nil {
					return err
				}
				defer closeFn()
				writer = w
			}

			opts := append(app.ClientOptions(), colsync.WithApplyOptions(applyOptions(cmd, flags)...))
			client, err := colsync.New(cat, writer, opts...)
			if err != nil {
				return err
			}
			Progress(client, app)

			session, err := client.Resume(ctx, doc)
			if err != nil {
				return err
			}

			return Run(cmd, app, session, flags.Yes || flags.DryRun || flags.Script != "")
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&flags.Script, "script", "", "write SQL statements to this file instead of executing them")
	cmd.Flags().StringVar(&flags.Dialect, "dialect", string(script.Databricks), "SQL dialect for --script: databricks, postgres")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "parallel column updates (default from config, 1)")

	return cmd
}

func applyOptions(cmd *cobra.Command, flags *Flags) []pkgapply.Option {
	var opts []pkgapply.Option
	if flags.DryRun {
		opts = append(opts, pkgapply.WithDryRun(true))
	}
	if cmd.Flags().Changed("concurrency") {
		opts = append(opts, pkgapply.WithConcurrency(flags.Concurrency))
	}
	return opts
}

func openScript(path, dialect string) (schema.Writer, func(), error) {
	d, err := script.ParseDialect(dialect)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, nil, errors.WrapIO("create", path, err)
	}
	w, err := script.NewWriter(f, d)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return w, func() { _ = f.Close() }, nil
}

// Progress logs every row as the target accepts or rejects it.
func Progress(client *colsync.Client, app application.Application) {
	logger := app.Logger()
	client.OnRowApplied(func(table schema.TableID, row pkgapply.RowResult) {
		logger.Debug().
			Str("table", table.String()).
			Str("column", row.Column).
			Msg("Description updated")
	})
	client.OnRowFailed(func(table schema.TableID, row pkgapply.RowResult) {
		logger.Error().
			Err(row.Err).
			Str("table", table.String()).
			Str("column", row.Column).
			Msg("Description update failed")
	})
}

// Run confirms the pending rows, applies them and prints the report.
// It returns an error when any row failed.
func Run(cmd *cobra.Command, app application.Application, session *colsync.Session, confirmed bool) error {
	out := cmd.OutOrStdout()
	stats := session.Stats()

	if stats.Changed == 0 {
		_, _ = fmt.Fprintln(out, "No descriptions to update.")
		return nil
	}

	if !confirmed {
		question := fmt.Sprintf("Update %d column descriptions on %s?", stats.Changed, session.Target())
		if !review.Confirm(cmd.InOrStdin(), out, question) {
			_, _ = fmt.Fprintln(out, "Apply cancelled")
			return nil
		}
	}

	result, err := session.Apply(cmd.Context())
	if err != nil {
		return err
	}
	return Report(out, app.OutputFormat(), result)
}

// Report prints an apply result followed by its summary.
func Report(w io.Writer, format string, result *pkgapply.Result) error {
	if err := output.Print(w, format, result); err != nil {
		return err
	}
	if output.IsTable(format) {
		_, _ = fmt.Fprintln(w, result.Summary())
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d column updates failed: %w",
			result.Count(pkgapply.OutcomeFailed), len(result.Rows), result.Err())
	}
	return nil
}
