// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/library"
)

func testFavorite() *library.Favorite {
	return &library.Favorite{
		UserID:    ulid.Make(),
		MovieID:   "tt1375666",
		Title:     "Inception",
		Year:      "2010",
		Poster:    "https://example.test/p.jpg",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepository_PutFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts favorite", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		fav := testFavorite()
		mock.ExpectExec(`INSERT INTO favorites`).
			WithArgs(
				fav.UserID.String(), fav.MovieID, fav.Title,
				fav.Year, fav.Poster, fav.CreatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.PutFavorite(ctx, fav))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbErr := errors.New("connection reset")
		mock.ExpectExec(`INSERT INTO favorites`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(dbErr)

		repo := NewRepository(mock)
		err = repo.PutFavorite(ctx, testFavorite())
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRepository_ListFavorites(t *testing.T) {
	ctx := context.Background()

	t.Run("returns favorites", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		fav := testFavorite()
		rows := pgxmock.NewRows([]string{"user_id", "movie_id", "title", "year", "poster", "created_at"}).
			AddRow(fav.UserID.String(), fav.MovieID, fav.Title, fav.Year, fav.Poster, fav.CreatedAt)
		mock.ExpectQuery(`SELECT user_id, movie_id, title, year, poster, created_at`).
			WithArgs(fav.UserID.String()).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		got, err := repo.ListFavorites(ctx, fav.UserID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, fav.MovieID, got[0].MovieID)
		assert.Equal(t, fav.Title, got[0].Title)
		assert.Equal(t, fav.UserID, got[0].UserID)
	})

	t.Run("empty library returns no rows", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		userID := ulid.Make()
		rows := pgxmock.NewRows([]string{"user_id", "movie_id", "title", "year", "poster", "created_at"})
		mock.ExpectQuery(`SELECT user_id, movie_id, title, year, poster, created_at`).
			WithArgs(userID.String()).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		got, err := repo.ListFavorites(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid user id in row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		userID := ulid.Make()
		rows := pgxmock.NewRows([]string{"user_id", "movie_id", "title", "year", "poster", "created_at"}).
			AddRow("not-a-ulid", "tt1375666", "Inception", "2010", "", time.Now())
		mock.ExpectQuery(`SELECT user_id, movie_id, title, year, poster, created_at`).
			WithArgs(userID.String()).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		_, err = repo.ListFavorites(ctx, userID)
		require.Error(t, err)
	})
}

func TestRepository_DeleteFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes favorite", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		userID := ulid.Make()
		mock.ExpectExec(`DELETE FROM favorites`).
			WithArgs(userID.String(), "tt1375666").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.DeleteFavorite(ctx, userID, "tt1375666"))
	})

	t.Run("absent row is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		userID := ulid.Make()
		mock.ExpectExec(`DELETE FROM favorites`).
			WithArgs(userID.String(), "tt0000000").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewRepository(mock)
		require.NoError(t, repo.DeleteFavorite(ctx, userID, "tt0000000"))
	})
}

func TestRepository_PutRating(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rating := &library.Rating{
		UserID:    ulid.Make(),
		MovieID:   "tt1375666",
		Rating:    5,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	mock.ExpectExec(`INSERT INTO ratings`).
		WithArgs(rating.UserID.String(), rating.MovieID, rating.Rating, rating.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mock)
	require.NoError(t, repo.PutRating(ctx, rating))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRatings(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := ulid.Make()
	now := time.Now().UTC().Truncate(time.Microsecond)
	rows := pgxmock.NewRows([]string{"user_id", "movie_id", "rating", "updated_at"}).
		AddRow(userID.String(), "tt1375666", 4, now).
		AddRow(userID.String(), "tt0816692", 5, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT user_id, movie_id, rating, updated_at`).
		WithArgs(userID.String()).
		WillReturnRows(rows)

	repo := NewRepository(mock)
	got, err := repo.ListRatings(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Rating)
	assert.Equal(t, "tt0816692", got[1].MovieID)
}

func TestRepository_DeleteRating(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := ulid.Make()
	mock.ExpectExec(`DELETE FROM ratings`).
		WithArgs(userID.String(), "tt1375666").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewRepository(mock)
	require.NoError(t, repo.DeleteRating(ctx, userID, "tt1375666"))
}

func TestRepository_CountAll(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"favorites", "ratings"}).AddRow(int64(42), int64(17))
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	repo := NewRepository(mock)
	favorites, ratings, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), favorites)
	assert.Equal(t, int64(17), ratings)
}
