// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package mocks provides testify mocks for the library interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/cinescope/cinescope/internal/library"
)

// MockRepository is a mock implementation of library.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository that asserts its
// expectations at test cleanup.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) ListFavorites(ctx context.Context, userID ulid.ULID) ([]library.Favorite, error) {
	args := m.Called(ctx, userID)
	if f := args.Get(0); f != nil {
		return f.([]library.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) PutFavorite(ctx context.Context, fav *library.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockRepository) DeleteFavorite(ctx context.Context, userID ulid.ULID, movieID string) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *MockRepository) ListRatings(ctx context.Context, userID ulid.ULID) ([]library.Rating, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]library.Rating), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) PutRating(ctx context.Context, rating *library.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRepository) DeleteRating(ctx context.Context, userID ulid.ULID, movieID string) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *MockRepository) CountAll(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// Compile-time interface check.
var _ library.Repository = (*MockRepository)(nil)
