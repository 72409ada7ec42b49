// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"net/http"
	"strconv"
)

func (a *API) handleMovieSearch(w http.ResponseWriter, r *http.Request) {
	if a.movies == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Movie search is not configured")
		return
	}

	query := r.URL.Query().Get("q")
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeFailure(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}
	if query == "" {
		writeFailure(w, http.StatusBadRequest, "q is required")
		return
	}

	result, err := a.movies.Search(r.Context(), query, page)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeData(w, http.StatusOK, "", result)
}

func (a *API) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	if a.movies == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Movie search is not configured")
		return
	}

	movie, err := a.movies.Details(r.Context(), r.PathValue("imdbID"))
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeData(w, http.StatusOK, "", movie)
}
