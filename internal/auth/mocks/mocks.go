// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package mocks provides testify mocks for the auth interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/cinescope/cinescope/internal/auth"
)

// MockUserRepository is a mock implementation of auth.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository that asserts its
// expectations at test cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPasswordHasher is a mock implementation of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations at test cleanup.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, digest string) (bool, error) {
	args := m.Called(password, digest)
	return args.Bool(0), args.Error(1)
}

// MockTokenCodec is a mock implementation of auth.TokenCodec.
type MockTokenCodec struct {
	mock.Mock
}

// NewMockTokenCodec creates a MockTokenCodec that asserts its
// expectations at test cleanup.
func NewMockTokenCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenCodec {
	m := &MockTokenCodec{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenCodec) Issue(user *auth.User, ttl time.Duration) (string, error) {
	args := m.Called(user, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if c := args.Get(0); c != nil {
		return c.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

// Compile-time interface checks.
var (
	_ auth.UserRepository = (*MockUserRepository)(nil)
	_ auth.PasswordHasher = (*MockPasswordHasher)(nil)
	_ auth.TokenCodec     = (*MockTokenCodec)(nil)
)
