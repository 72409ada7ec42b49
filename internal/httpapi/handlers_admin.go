// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"net/http"
)

// adminStats is the admin dashboard payload.
type adminStats struct {
	Users     int64 `json:"users"`
	Favorites int64 `json:"favorites"`
	Ratings   int64 `json:"ratings"`
}

func (a *API) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.library.Stats(r.Context())
	if err != nil {
		writeError(a.logger, w, err)
		return
	}

	var users int64
	if a.userCounter != nil {
		users, err = a.userCounter.CountUsers(r.Context())
		if err != nil {
			writeError(a.logger, w, err)
			return
		}
	}

	writeData(w, http.StatusOK, "", adminStats{
		Users:     users,
		Favorites: stats.Favorites,
		Ratings:   stats.Ratings,
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}
