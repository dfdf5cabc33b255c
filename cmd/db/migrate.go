package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/config"
	"github.com/garrettladley/rrdash/internal/db"
	postgresmigrations "github.com/garrettladley/rrdash/internal/migrations/postgres"
	"github.com/garrettladley/rrdash/internal/paths"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to the local database and, if configured, postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if _, err := paths.EnsureDir(); err != nil {
				return err
			}
			dbPath, err := paths.DB()
			if err != nil {
				return err
			}
			sqlDB, err := db.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = sqlDB.Close()
			}()
			cmd.Printf("Local migrations applied (%s)\n", dbPath)

			if cfg.Reports.DatabaseURL == "" {
				return nil
			}
			pool, err := pgxpool.New(ctx, cfg.Reports.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}
			defer pool.Close()

			if err := postgresmigrations.Apply(ctx, pool); err != nil {
				return err
			}
			cmd.Println("Postgres migrations applied")
			return nil
		},
	}
}
