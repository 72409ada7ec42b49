// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/observability"
)

// bearerPrefix per RFC 6750; matched case-insensitively.
const bearerPrefix = "bearer "

// middleware is a composable http.Handler wrapper.
type middleware func(http.Handler) http.Handler

// chain applies middlewares left to right: the first listed runs
// outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SessionGuard authenticates requests and gates them by role.
type SessionGuard struct {
	codec  auth.TokenCodec
	users  auth.UserRepository
	logger *slog.Logger
}

// NewSessionGuard creates the middleware that protects authenticated
// routes.
func NewSessionGuard(codec auth.TokenCodec, users auth.UserRepository, logger *slog.Logger) *SessionGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGuard{codec: codec, users: users, logger: logger}
}

// RequireAuth verifies the bearer token and resolves the subject
// against the user store. Any failure along that path is a 401; the
// reason is logged, not returned, so probes learn nothing.
func (g *SessionGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			g.logger.Debug("token rejected", "error", err)
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		subject, err := ulid.Parse(claims.Subject)
		if err != nil {
			g.logger.Debug("token subject unparseable", "error", err)
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		// Resolve against the store so deleted accounts lose access
		// even while their tokens are unexpired.
		user, err := g.users.GetByID(r.Context(), subject)
		if err != nil {
			if !errors.Is(err, auth.ErrNotFound) {
				g.logger.Error("identity lookup failed", "error", err)
			}
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		public := user.Public()
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &public)))
	})
}

// RequireRole gates a route on the caller's role. It must be stacked
// after RequireAuth; a missing identity is a 401, a role mismatch 403.
func (g *SessionGuard) RequireRole(role auth.Role) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := IdentityFrom(r.Context())
			if !ok {
				writeFailure(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if user.Role != role {
				writeFailure(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// instrument logs each request and records the per-route counter.
// route is the registered pattern, not the raw path, so the metric
// cardinality stays bounded.
func instrument(logger *slog.Logger, metrics *observability.Metrics) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			if metrics != nil {
				metrics.HTTPRequestsTotal.
					WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			}
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", sw.status,
				"duration", time.Since(start).String())
		})
	}
}
