// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package library manages per-user movie collections: favorites and
// star ratings. Writes are idempotent so clients can retry freely.
package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Rating bounds match the star widget in the web client.
const (
	MinRating = 1
	MaxRating = 5
)

// ErrInvalidRating indicates a rating outside the 1..5 range.
var ErrInvalidRating = errors.New("rating out of range")

// Favorite is a saved movie with the display fields cached at save
// time so listing the library does not hit the upstream API.
type Favorite struct {
	UserID    ulid.ULID `json:"-"`
	MovieID   string    `json:"imdbID"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	Poster    string    `json:"poster"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating is a user's star rating for a movie.
type Rating struct {
	UserID    ulid.ULID `json:"-"`
	MovieID   string    `json:"imdbID"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository persists favorites and ratings.
type Repository interface {
	ListFavorites(ctx context.Context, userID ulid.ULID) ([]Favorite, error)
	PutFavorite(ctx context.Context, fav *Favorite) error
	DeleteFavorite(ctx context.Context, userID ulid.ULID, movieID string) error

	ListRatings(ctx context.Context, userID ulid.ULID) ([]Rating, error)
	PutRating(ctx context.Context, rating *Rating) error
	DeleteRating(ctx context.Context, userID ulid.ULID, movieID string) error

	CountAll(ctx context.Context) (favorites int64, ratings int64, err error)
}

// Service validates library operations before they reach storage.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a library service.
func NewService(repo Repository) (*Service, error) {
	return NewServiceWithLogger(repo, slog.Default())
}

// NewServiceWithLogger creates a library service with a custom logger.
func NewServiceWithLogger(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("library repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}, nil
}

// ListFavorites returns the user's saved movies, newest first.
func (s *Service) ListFavorites(ctx context.Context, userID ulid.ULID) ([]Favorite, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// SaveFavorite adds or refreshes a favorite. Saving an already-saved
// movie updates the cached display fields and is not an error.
func (s *Service) SaveFavorite(ctx context.Context, userID ulid.ULID, movieID, title, year, poster string) (*Favorite, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, oops.Code("LIBRARY_MOVIE_ID_EMPTY").New("movie id is required")
	}

	fav := &Favorite{
		UserID:    userID,
		MovieID:   movieID,
		Title:     title,
		Year:      year,
		Poster:    poster,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.PutFavorite(ctx, fav); err != nil {
		return nil, err
	}

	s.logger.Debug("favorite saved",
		"user_id", userID.String(),
		"movie_id", movieID)
	return fav, nil
}

// RemoveFavorite deletes a favorite. Removing a movie that was never
// saved is a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, userID ulid.ULID, movieID string) error {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return oops.Code("LIBRARY_MOVIE_ID_EMPTY").New("movie id is required")
	}
	return s.repo.DeleteFavorite(ctx, userID, movieID)
}

// ListRatings returns all of the user's ratings.
func (s *Service) ListRatings(ctx context.Context, userID ulid.ULID) ([]Rating, error) {
	return s.repo.ListRatings(ctx, userID)
}

// RateMovie sets the user's rating for a movie, replacing any previous
// value.
func (s *Service) RateMovie(ctx context.Context, userID ulid.ULID, movieID string, value int) (*Rating, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, oops.Code("LIBRARY_MOVIE_ID_EMPTY").New("movie id is required")
	}
	if value < MinRating || value > MaxRating {
		return nil, oops.Code("LIBRARY_RATING_INVALID").
			With("rating", value).
			Wrapf(ErrInvalidRating, "rating must be between %d and %d", MinRating, MaxRating)
	}

	rating := &Rating{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.PutRating(ctx, rating); err != nil {
		return nil, err
	}

	s.logger.Debug("movie rated",
		"user_id", userID.String(),
		"movie_id", movieID,
		"rating", value)
	return rating, nil
}

// UnrateMovie removes the user's rating for a movie. Removing a rating
// that does not exist is a no-op.
func (s *Service) UnrateMovie(ctx context.Context, userID ulid.ULID, movieID string) error {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return oops.Code("LIBRARY_MOVIE_ID_EMPTY").New("movie id is required")
	}
	return s.repo.DeleteRating(ctx, userID, movieID)
}

// Stats are aggregate library counts for the admin dashboard.
type Stats struct {
	Favorites int64 `json:"favorites"`
	Ratings   int64 `json:"ratings"`
}

// Stats returns aggregate counts across all users.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	favorites, ratings, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Favorites: favorites, Ratings: ratings}, nil
}
