// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides registration, login and identity resolution.
type Service struct {
	users    UserRepository
	hasher   PasswordHasher
	tokens   TokenCodec
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates a new Service. tokenTTL <= 0 falls back to
// DefaultTokenTTL.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenCodec, tokenTTL time.Duration) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, tokenTTL, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens TokenCodec, tokenTTL time.Duration, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token codec is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is verified when a login names an unknown email so
// both failure paths do comparable work. It is a fake digest that can
// never match a password, not a credential.
//
//nolint:gosec // G101: intentionally fake digest for timing consistency, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account and issues its first session token.
// The email lookup runs before any hashing work; a taken email fails
// fast with ErrDuplicateEmail, and the same error surfaces if a
// concurrent registration wins the create race at the store.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*User, string, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, "", err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
	case !errors.Is(err, ErrNotFound):
		return nil, "", oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, hash, firstName, lastName)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Check-then-create is not atomic across requests; the unique
		// index surfaces the race as the same duplicate condition.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, "", oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
		}
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	token, err := s.tokens.Issue(user, s.tokenTTL)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String())
	return user, token, nil
}

// Login authenticates a user and issues a fresh session token.
// An unknown email and a wrong password collapse to the same
// ErrInvalidCredentials; a dummy digest is verified in the unknown
// case so response time does not reveal account existence.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOOKUP_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user, s.tokenTTL)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID.String())
	return user, token, nil
}

// ResolveIdentity retrieves a user by id. ErrNotFound passes through
// for callers that map it to a 404 or 401.
func (s *Service) ResolveIdentity(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("user_id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	return user, nil
}
