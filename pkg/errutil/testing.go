// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails the test unless err is an oops error carrying
// exactly the given code.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	assert.Equal(t, code, oopsErr.Code(), "wrong error code")
}

// AssertErrorContext fails the test unless err is an oops error whose
// context map holds value under key.
func AssertErrorContext(t testing.TB, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	errCtx := oopsErr.Context()
	require.Contains(t, errCtx, key)
	assert.Equal(t, value, errCtx[key])
}
