// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registration collides with an
// existing account. The store also produces it when two concurrent
// registrations race past the service-level lookup.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrInvalidCredentials covers both an unknown email and a wrong
// password so callers cannot distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid email or password")
