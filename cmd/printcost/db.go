package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/migrations"
	"github.com/Simplici0/printcost/internal/reports"
	"github.com/Simplici0/printcost/internal/store"
)

func newMigrateCmd(newLogger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply pending migrations to the database selected by DB_DRIVER and
DB_PATH or DATABASE_URL. The server only migrates by itself in development.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			conn, cfg, err := openDatabase(ctx, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := migrations.Up(ctx, conn.DB, cfg.DBDriver); err != nil {
				return err
			}
			version, err := migrations.Version(ctx, conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", version)
			return err
		},
	}
}

func newExportCmd(newLogger func() *zap.Logger) *cobra.Command {
	var (
		user     int64
		format   string
		output   string
		category string
		sortKey  string
		order    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's print history as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var write func(io.Writer, []jobs.Record) error
			switch strings.ToLower(format) {
			case "csv":
				write = reports.WriteCSV
			case "xlsx":
				write = reports.WriteXLSX
			default:
				return fmt.Errorf("unsupported format %q (use csv or xlsx)", format)
			}
			q, err := reports.ParseQuery(category, sortKey, order)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			conn, _, err := openDatabase(ctx, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			records, err := store.New(conn).ListHistory(ctx, user)
			if err != nil {
				return err
			}
			records = reports.Apply(records, q)

			if output == "" || output == "-" {
				return write(cmd.OutOrStdout(), records)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := write(f, records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			logger.Info("history exported", zap.Int64("user", user), zap.Int("records", len(records)), zap.String("file", output))
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "id of the user whose history is exported")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVar(&category, "category", "", "only export this category id")
	cmd.Flags().StringVar(&sortKey, "sort", "", "date, client or profit")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
