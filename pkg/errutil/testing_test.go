// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/cinescope/cinescope/pkg/errutil"
)

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("DUPLICATE_EMAIL").Errorf("already registered")
	errutil.AssertErrorCode(t, err, "DUPLICATE_EMAIL")
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.With("email", "a@example.com").Errorf("lookup failed")
	errutil.AssertErrorContext(t, err, "email", "a@example.com")
}
