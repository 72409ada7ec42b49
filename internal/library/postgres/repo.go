// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package postgres implements the library repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/cinescope/cinescope/internal/library"
)

// querier is the subset of pgxpool.Pool used by the repository.
// It matches pgxmock so unit tests can run without a database.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements library.Repository using PostgreSQL.
type Repository struct {
	db querier
}

// NewRepository creates a new Repository.
func NewRepository(db querier) *Repository {
	return &Repository{db: db}
}

// ListFavorites returns the user's favorites, newest first.
func (r *Repository) ListFavorites(ctx context.Context, userID ulid.ULID) ([]library.Favorite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, movie_id, title, year, poster, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("FAVORITES_LIST_FAILED").
			With("operation", "list favorites").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var favorites []library.Favorite
	for rows.Next() {
		var (
			userIDStr string
			fav       library.Favorite
			createdAt time.Time
		)
		if err := rows.Scan(&userIDStr, &fav.MovieID, &fav.Title, &fav.Year, &fav.Poster, &createdAt); err != nil {
			return nil, oops.Code("FAVORITES_SCAN_FAILED").
				With("operation", "scan favorite").
				Wrap(err)
		}
		id, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("FAVORITES_INVALID_USER_ID").
				With("user_id", userIDStr).
				Wrap(err)
		}
		fav.UserID = id
		fav.CreatedAt = createdAt
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FAVORITES_LIST_FAILED").
			With("operation", "iterate favorites").
			Wrap(err)
	}
	return favorites, nil
}

// PutFavorite inserts or refreshes a favorite. The upsert keeps the
// original created_at so re-saving does not reorder the list.
func (r *Repository) PutFavorite(ctx context.Context, fav *library.Favorite) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, movie_id, title, year, poster, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET title = EXCLUDED.title,
		    year = EXCLUDED.year,
		    poster = EXCLUDED.poster
	`,
		fav.UserID.String(),
		fav.MovieID,
		fav.Title,
		fav.Year,
		fav.Poster,
		fav.CreatedAt,
	)
	if err != nil {
		return oops.Code("FAVORITE_PUT_FAILED").
			With("operation", "upsert favorite").
			With("movie_id", fav.MovieID).
			Wrap(err)
	}
	return nil
}

// DeleteFavorite removes a favorite. Deleting an absent row is a no-op.
func (r *Repository) DeleteFavorite(ctx context.Context, userID ulid.ULID, movieID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2
	`, userID.String(), movieID)
	if err != nil {
		return oops.Code("FAVORITE_DELETE_FAILED").
			With("operation", "delete favorite").
			With("movie_id", movieID).
			Wrap(err)
	}
	return nil
}

// ListRatings returns all of the user's ratings.
func (r *Repository) ListRatings(ctx context.Context, userID ulid.ULID) ([]library.Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, movie_id, rating, updated_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("RATINGS_LIST_FAILED").
			With("operation", "list ratings").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var ratings []library.Rating
	for rows.Next() {
		var (
			userIDStr string
			rating    library.Rating
			updatedAt time.Time
		)
		if err := rows.Scan(&userIDStr, &rating.MovieID, &rating.Rating, &updatedAt); err != nil {
			return nil, oops.Code("RATINGS_SCAN_FAILED").
				With("operation", "scan rating").
				Wrap(err)
		}
		id, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("RATINGS_INVALID_USER_ID").
				With("user_id", userIDStr).
				Wrap(err)
		}
		rating.UserID = id
		rating.UpdatedAt = updatedAt
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("RATINGS_LIST_FAILED").
			With("operation", "iterate ratings").
			Wrap(err)
	}
	return ratings, nil
}

// PutRating inserts or replaces a rating.
func (r *Repository) PutRating(ctx context.Context, rating *library.Rating) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ratings (user_id, movie_id, rating, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    updated_at = EXCLUDED.updated_at
	`,
		rating.UserID.String(),
		rating.MovieID,
		rating.Rating,
		rating.UpdatedAt,
	)
	if err != nil {
		return oops.Code("RATING_PUT_FAILED").
			With("operation", "upsert rating").
			With("movie_id", rating.MovieID).
			Wrap(err)
	}
	return nil
}

// DeleteRating removes a rating. Deleting an absent row is a no-op.
func (r *Repository) DeleteRating(ctx context.Context, userID ulid.ULID, movieID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2
	`, userID.String(), movieID)
	if err != nil {
		return oops.Code("RATING_DELETE_FAILED").
			With("operation", "delete rating").
			With("movie_id", movieID).
			Wrap(err)
	}
	return nil
}

// CountAll returns aggregate favorite and rating counts across all
// users.
func (r *Repository) CountAll(ctx context.Context) (int64, int64, error) {
	var favorites, ratings int64
	row := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM favorites),
			(SELECT count(*) FROM ratings)
	`)
	if err := row.Scan(&favorites, &ratings); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, oops.Code("LIBRARY_COUNT_FAILED").
			With("operation", "count library rows").
			Wrap(err)
	}
	return favorites, ratings, nil
}

// Compile-time interface check.
var _ library.Repository = (*Repository)(nil)
