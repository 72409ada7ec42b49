// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/cinescope/cinescope/internal/library"
)

type favoriteRequest struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// callerID parses the guard-attached identity. The guard guarantees
// presence on every route that reaches here.
func (a *API) callerID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return ulid.ULID{}, false
	}
	id, err := ulid.Parse(identity.ID)
	if err != nil {
		writeError(a.logger, w, err)
		return ulid.ULID{}, false
	}
	return id, true
}

func (a *API) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	favorites, err := a.library.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	if favorites == nil {
		favorites = []library.Favorite{}
	}
	writeData(w, http.StatusOK, "", favorites)
}

func (a *API) handlePutFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	// Display fields are optional; an empty body saves the id alone.
	var req favoriteRequest
	if r.ContentLength != 0 {
		if err := a.validate.decode(r, "favorite.json", &req); err != nil {
			writeError(a.logger, w, err)
			return
		}
	}

	fav, err := a.library.SaveFavorite(r.Context(), userID, r.PathValue("movieID"),
		req.Title, req.Year, req.Poster)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeData(w, http.StatusOK, "Favorite saved", fav)
}

func (a *API) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	if err := a.library.RemoveFavorite(r.Context(), userID, r.PathValue("movieID")); err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Favorite removed")
}

func (a *API) handleListRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	ratings, err := a.library.ListRatings(r.Context(), userID)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	if ratings == nil {
		ratings = []library.Rating{}
	}
	writeData(w, http.StatusOK, "", ratings)
}

func (a *API) handlePutRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := a.validate.decode(r, "rating.json", &req); err != nil {
		writeError(a.logger, w, err)
		return
	}

	rating, err := a.library.RateMovie(r.Context(), userID, r.PathValue("movieID"), req.Rating)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeData(w, http.StatusOK, "Rating saved", rating)
}

func (a *API) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.callerID(w, r)
	if !ok {
		return
	}

	if err := a.library.UnrateMovie(r.Context(), userID, r.PathValue("movieID")); err != nil {
		writeError(a.logger, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Rating removed")
}
