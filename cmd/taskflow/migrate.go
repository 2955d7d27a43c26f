package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskflow/internal/adapter/database/postgres"
	"taskflow/internal/adapter/database/sqlite"
	"taskflow/pkg/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)

			if err != nil {
				return err
			}

			return runMigrate(cmd, cfg)
		},
	}
}

func runMigrate(cmd *cobra.Command, cfg *config.AppConfig) error {
	switch cfg.Database.Driver {
	case config.DatabasePostgres:
		if err := postgres.RunMigrations(cfg.Database.PostgresURL); err != nil {
			return err
		}
	default:
		// opening the database applies the embedded migrations
		db, err := sqlite.NewDB(sqlite.Options{Path: cfg.Database.SQLitePath})

		if err != nil {
			return err
		}

		if err := db.Close(); err != nil {
			return fmt.Errorf("close sqlite: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Database.Driver)

	return nil
}
