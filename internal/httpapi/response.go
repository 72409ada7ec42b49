// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/library"
	"github.com/cinescope/cinescope/internal/movies"
	"github.com/cinescope/cinescope/pkg/errutil"
)

// envelope is the response shape every endpoint returns. The web
// client predates this server, so the field set is fixed.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeData writes a success envelope with a payload.
func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeMessage writes a success envelope without a payload.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// writeFailure writes an error envelope with a client-safe message.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("response write failed", "error", err)
	}
}

// writeError maps a domain error to a status code and a generic
// message. Internal detail is logged, never returned to the client.
func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
	}
	writeFailure(w, status, message)
}

// errorStatus translates domain sentinels into HTTP status codes.
// Unrecognized errors collapse to 500 with a generic message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email is already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, movies.ErrNotFound):
		return http.StatusNotFound, "Movie not found"
	case errors.Is(err, movies.ErrTooManyResults):
		return http.StatusBadRequest, "Search term is too broad"
	case errors.Is(err, movies.ErrUpstream):
		return http.StatusBadGateway, "Movie data is temporarily unavailable"
	case errors.Is(err, library.ErrInvalidRating):
		return http.StatusBadRequest, "Rating must be between 1 and 5"
	case errors.Is(err, errValidation):
		return http.StatusBadRequest, "Invalid request body"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
