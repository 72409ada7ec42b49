// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"context"

	"github.com/cinescope/cinescope/internal/auth"
)

// identityKey is unexported so only this package can attach identities.
type identityKey struct{}

// WithIdentity returns a context carrying the authenticated user.
func WithIdentity(ctx context.Context, user *auth.PublicUser) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFrom extracts the authenticated user from the context.
func IdentityFrom(ctx context.Context) (*auth.PublicUser, bool) {
	user, ok := ctx.Value(identityKey{}).(*auth.PublicUser)
	return user, ok
}
