// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package movies

import "errors"

// Sentinel errors for OMDb lookups. Wrapped with oops context at the
// point of failure; callers match with errors.Is.
var (
	// ErrNotFound indicates OMDb has no movie for the query or IMDb ID.
	ErrNotFound = errors.New("movie not found")

	// ErrTooManyResults indicates the search term was too broad for OMDb.
	ErrTooManyResults = errors.New("too many results")

	// ErrUpstream indicates the OMDb API could not be reached or kept
	// failing after retries.
	ErrUpstream = errors.New("omdb upstream failure")
)
