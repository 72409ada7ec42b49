// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	subcommands := []string{"serve", "migrate", "status"}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "config flag with space",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "config flag with equals",
			args:     []string{"--config=/etc/cinescope.yaml", "--help"},
			wantFlag: "/etc/cinescope.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global
			configFile = ""

			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestRootCommand_LongDescription(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "cinescope", cmd.Use)
	assert.Contains(t, cmd.Long, "movie", "Long description should mention movies")
	assert.Contains(t, cmd.Long, "favorites", "Long description should mention favorites")
}

func TestRootCommand_NoArgs(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	// Root command with no args should show help (no error)
	require.NoError(t, cmd.Execute())
}

func TestServeCommand_Properties(t *testing.T) {
	cmd := NewServeCmd()

	assert.Equal(t, "serve", cmd.Use)
	assert.Contains(t, cmd.Short, "API", "Short description should mention the API")
	assert.Contains(t, cmd.Long, "SIGTERM", "Long description should mention graceful shutdown")
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := NewServeCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	flags := []string{"--server.addr", "--server.metrics", "--database.url", "--omdb.key", "--log.format"}
	for _, flag := range flags {
		assert.Contains(t, output, flag, "Help missing %q flag", flag)
	}
}

func TestServeCommand_NoAuthSecret(t *testing.T) {
	t.Setenv("CINESCOPE_AUTH_SECRET", "")
	configFile = ""

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when no signing secret is configured")
	assert.Contains(t, err.Error(), "auth.secret")
}

func TestServeCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("CINESCOPE_AUTH_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CINESCOPE_DATABASE_URL", "")
	configFile = ""

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when no database URL is configured")
	assert.Contains(t, err.Error(), "database.url")
}
