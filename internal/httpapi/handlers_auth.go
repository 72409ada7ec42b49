// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"net/http"

	"github.com/oklog/ulid/v2"
)

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionPayload is the data object returned by signup and login.
type sessionPayload struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := a.validate.decode(r, "signup.json", &req); err != nil {
		writeError(a.logger, w, err)
		return
	}

	user, token, err := a.auth.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		a.recordAuthAttempt("signup", "failure")
		writeError(a.logger, w, err)
		return
	}

	a.recordAuthAttempt("signup", "success")
	writeData(w, http.StatusCreated, "User registered successfully", sessionPayload{
		User:  user.Public(),
		Token: token,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.validate.decode(r, "login.json", &req); err != nil {
		writeError(a.logger, w, err)
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.recordAuthAttempt("login", "failure")
		writeError(a.logger, w, err)
		return
	}

	a.recordAuthAttempt("login", "success")
	writeData(w, http.StatusOK, "Login successful", sessionPayload{
		User:  user.Public(),
		Token: token,
	})
}

// handleMe re-resolves the caller against the store rather than
// echoing the guard's snapshot, so the response reflects the current
// record.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := ulid.Parse(identity.ID)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}

	user, err := a.auth.ResolveIdentity(r.Context(), id)
	if err != nil {
		writeError(a.logger, w, err)
		return
	}

	writeData(w, http.StatusOK, "", user.Public())
}

func (a *API) recordAuthAttempt(operation, outcome string) {
	if a.metrics != nil {
		a.metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
	}
}
