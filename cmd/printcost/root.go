package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/config"
	"github.com/Simplici0/printcost/internal/db"
	"github.com/Simplici0/printcost/internal/logging"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "printcost",
		Short: "Price 3D print jobs and manage the printcost database",
		Long: `printcost computes the full cost breakdown and profit margin of a 3D print
job and maintains the database used by the printcost server.

Examples:
  printcost calc -f job.yaml
  printcost calc -f job.yaml --json
  printcost margin 0.35
  printcost migrate
  printcost export --user 1 --format xlsx -o history.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newLogger := func() *zap.Logger {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logging.New(logging.Options{Level: level, Output: os.Stderr})
	}

	root.AddCommand(
		newCalcCmd(),
		newMarginCmd(),
		newMigrateCmd(newLogger),
		newExportCmd(newLogger),
	)
	return root
}

// openDatabase loads the environment configuration and connects to the
// configured database.
func openDatabase(ctx context.Context, logger *zap.Logger) (*sqlx.DB, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DSN(), cfg.DBConnectTimeout, logger)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open database: %w", err)
	}
	return conn, cfg, nil
}
