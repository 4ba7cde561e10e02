package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/colsync/cmd/colsync/cmd/apply"
	"github.com/agentstation/colsync/cmd/colsync/cmd/plan"
	synccmd "github.com/agentstation/colsync/cmd/colsync/cmd/sync"
	"github.com/agentstation/colsync/cmd/colsync/cmd/tables"
	"github.com/agentstation/colsync/cmd/colsync/cmd/version"
	"github.com/agentstation/colsync/pkg/logging"
)

// Execute runs the colsync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "colsync",
		Short:   "Reconcile column descriptions between tables",
		Version: a.version,
		Long: `colsync copies column descriptions from a read-only source table to a
writable target table.

Target columns are paired with source columns by fuzzy name matching
(Levenshtein distance, case-insensitive). Each pairing yields a proposed
description: the target's own description when it has one, otherwise the
source's. You review the proposals, and only approved rows whose text
actually changes are written to the target. The source is never written.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is ./.colsync.yaml or $HOME/.colsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, wide, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("driver", "", "catalog driver: embedded, files, memory, postgres")
	rootCmd.PersistentFlags().String("dsn", "", "catalog connection string or directory (env COLSYNC_CATALOG_DSN)")

	rootCmd.SetVersionTemplate("colsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.config.ConfigFile != "" {
		loaded, err := LoadConfigFile(a.config.ConfigFile)
		if err != nil {
			return err
		}
		loaded.Verbose, loaded.Quiet, loaded.NoColor = a.config.Verbose, a.config.Quiet, a.config.NoColor
		a.config = loaded
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
		mustGetString(cmd, "driver"),
		mustGetString(cmd, "dsn"),
	)
	if err := a.config.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(plan.NewCommand(a))
	rootCmd.AddCommand(apply.NewCommand(a))
	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(tables.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
