// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/cinescope/cinescope/internal/store"
)

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	databaseURL string
	down        bool
	steps       int
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply pending database migrations. --down rolls everything back;
--steps applies (or with a negative value, rolls back) that many
migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.databaseURL, "database.url", "", "PostgreSQL connection URL (default: DATABASE_URL)")
	cmd.Flags().BoolVar(&cfg.down, "down", false, "roll back all migrations")
	cmd.Flags().IntVar(&cfg.steps, "steps", 0, "apply exactly n migrations (negative rolls back)")

	return cmd
}

func runMigrate(cmd *cobra.Command, cfg *migrateConfig) error {
	databaseURL := cfg.databaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set DATABASE_URL)")
	}
	if cfg.down && cfg.steps != 0 {
		return oops.Code("CONFIG_INVALID").Errorf("--down and --steps are mutually exclusive")
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	switch {
	case cfg.down:
		cmd.Println("Rolling back all migrations...")
		err = migrator.Down()
	case cfg.steps != 0:
		cmd.Printf("Applying %d migration step(s)...\n", cfg.steps)
		err = migrator.Steps(cfg.steps)
	default:
		cmd.Println("Running migrations...")
		err = migrator.Up()
	}

	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	cmd.Printf("Migrations completed successfully (version %d, dirty: %t)\n", version, dirty)
	return nil
}
