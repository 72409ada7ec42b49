// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package movies provides a client for the OMDb movie metadata API.
//
// The client proxies search and detail lookups so the API key never
// reaches browsers. Transient upstream failures are retried with
// exponential backoff; OMDb-level rejections (unknown title, bad IMDb
// ID) are surfaced as domain errors.
package movies
