// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/cinescope/cinescope/internal/store"
)

// Status is the health snapshot the status subcommand reports.
type Status struct {
	Version          string `json:"version"`
	Database         string `json:"database"`
	MigrationVersion uint   `json:"migration_version,omitempty"`
	MigrationDirty   bool   `json:"migration_dirty,omitempty"`
	Error            string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	databaseURL string
	jsonOutput  bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server version and database reachability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.databaseURL, "database.url", "", "PostgreSQL connection URL (default: DATABASE_URL)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	status := Status{Version: version, Database: "unreachable"}

	databaseURL := cfg.databaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		status.Error = "database.url not configured"
	} else {
		probeStatus(cmd.Context(), databaseURL, &status)
	}

	if cfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return oops.Code("STATUS_ENCODE_FAILED").Wrap(err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("version:  %s\n", status.Version)
	cmd.Printf("database: %s\n", status.Database)
	if status.Database == "ok" {
		cmd.Printf("schema:   version %d (dirty: %t)\n", status.MigrationVersion, status.MigrationDirty)
	}
	if status.Error != "" {
		cmd.Printf("error:    %s\n", status.Error)
	}
	return nil
}

// probeStatus checks database connectivity and the migration version.
func probeStatus(ctx context.Context, databaseURL string, status *Status) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := store.Open(ctx, databaseURL)
	if err != nil {
		status.Error = err.Error()
		return
	}
	defer pool.Close()
	status.Database = "ok"

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = err.Error()
		return
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return
	}
	status.MigrationVersion = version
	status.MigrationDirty = dirty
}
