// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package auth provides the authentication core for CineScope.
//
// # Domain Types
//
// User is the identity unit. Create one through NewUser, which
// validates the email and applies the default role. PublicUser is the
// projection safe to return to clients; it never carries the password
// hash.
//
// # Services
//
// Service orchestrates registration, login and identity resolution on
// top of a UserRepository, a PasswordHasher and a TokenCodec. The
// TokenCodec issues and verifies stateless, signed session tokens;
// there is no server-side session record and no revocation list.
// Logout is a client-side token discard.
package auth
