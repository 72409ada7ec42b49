// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package httpapi exposes the CineScope REST API: auth endpoints,
// proxied movie lookups and per-user library routes, all sharing one
// response envelope. Protected routes run behind the session guard
// middleware, which verifies the bearer token and resolves the caller
// against the user store on every request.
package httpapi
