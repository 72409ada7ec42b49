// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/pkg/errutil"
)

func TestMigrateCommand_Properties(t *testing.T) {
	cmd := NewMigrateCmd()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Contains(t, cmd.Short, "migration", "Short description should mention migrations")
	assert.Contains(t, cmd.Long, "--steps", "Long description should explain --steps")
}

func TestMigrateCommand_Flags(t *testing.T) {
	cmd := NewMigrateCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	flags := []string{"--database.url", "--down", "--steps"}
	for _, flag := range flags {
		assert.Contains(t, output, flag, "Help missing %q flag", flag)
	}
}

func TestMigrateCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when DATABASE_URL is not set")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestMigrateCommand_DownAndStepsExclusive(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/cinescope")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate", "--down", "--steps", "2"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when --down and --steps are combined")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestMigrateCommand_FlagOverridesEnv(t *testing.T) {
	// The flag parses and wins over the environment; the bogus scheme
	// then fails in the migrator rather than on configuration.
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/from-env")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate", "--database.url", "bogus://nowhere"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error with an unsupported database scheme")
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}
