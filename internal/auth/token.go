// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the session token validity window when the
// configuration does not override it.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the session token payload: the subject id rides in the
// registered claims, email and role ride alongside it.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TokenCodec issues and verifies stateless session tokens.
type TokenCodec interface {
	// Issue signs a token bound to the user with the given validity window.
	Issue(user *User, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry and returns the embedded claims.
	Verify(token string) (*Claims, error)
}

// JWTCodec implements TokenCodec as HS256-signed JWTs. Tokens are
// valid until the signature check fails or the expiry passes; there
// is no revocation.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec creates a JWTCodec with the server-held signing secret.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_SECRET_EMPTY").Errorf("signing secret cannot be empty")
	}
	return &JWTCodec{secret: secret}, nil
}

// Issue signs a token carrying the user's id, email and role.
func (c *JWTCodec) Issue(user *User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify validates the signature before trusting any embedded field,
// then the expiry. The signing method is pinned to HS256 so a token
// declaring a different algorithm is rejected outright.
func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, oops.Code("TOKEN_MALFORMED").Wrap(err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, oops.Code("TOKEN_SIGNATURE_INVALID").Wrap(err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code("TOKEN_EXPIRED").Wrap(err)
		default:
			return nil, oops.Code("TOKEN_INVALID").Wrap(err)
		}
	}

	if !token.Valid {
		return nil, oops.Code("TOKEN_INVALID").Wrap(jwt.ErrTokenUnverifiable)
	}

	return claims, nil
}

// Compile-time interface check.
var _ TokenCodec = (*JWTCodec)(nil)
