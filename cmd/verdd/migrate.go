package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
			results, err := p.Up(ctx)
			for _, r := range results {
				logger.Info("migration applied",
					slog.Int64("version", r.Source.Version),
					slog.Duration("duration", r.Duration),
				)
			}
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			if len(results) == 0 {
				logger.Info("no pending migrations")
			}
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
			r, err := p.Down(ctx)
			if err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info("migration rolled back", slog.Int64("version", r.Source.Version))
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
			statuses, err := p.Status(ctx)
			if err != nil {
				return fmt.Errorf("migrate status: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%05d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// withProvider opens a database/sql handle over the pgx pool, since goose
// works on *sql.DB.
func withProvider(ctx context.Context, fn func(context.Context, *goose.Provider) error) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	return fn(ctx, provider)
}
