// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/pkg/errutil"
)

func captureLog(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

func TestLogError_OopsMetadata(t *testing.T) {
	logger, buf := captureLog(t)

	err := oops.Code("LOOKUP_FAILED").
		With("user_id", "01ABC").
		Errorf("lookup blew up")

	errutil.LogError(logger, "resolve user", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "resolve user", entry["msg"])
	assert.Equal(t, "LOOKUP_FAILED", entry["code"])
	assert.Contains(t, entry["error"], "lookup blew up")

	errCtx, ok := entry["context"].(map[string]any)
	require.True(t, ok, "expected context map, got %v", entry["context"])
	assert.Equal(t, "01ABC", errCtx["user_id"])
}

func TestLogError_PlainError(t *testing.T) {
	logger, buf := captureLog(t)

	errutil.LogError(logger, "open file", errors.New("permission denied"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "permission denied")
	assert.NotContains(t, entry, "code")
}

func TestLogError_OopsWithoutCode(t *testing.T) {
	logger, buf := captureLog(t)

	errutil.LogError(logger, "no code attached", oops.Errorf("bare oops"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "code")
	assert.Contains(t, entry["error"], "bare oops")
}
