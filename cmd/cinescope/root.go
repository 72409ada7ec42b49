// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the CineScope CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cinescope",
		Short: "CineScope - movie discovery API server",
		Long: `CineScope is the backend for a movie-discovery web application:
account registration and login with stateless session tokens, a
server-side OMDb proxy, and per-user favorites and ratings.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
