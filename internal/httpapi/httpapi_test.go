// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/library"
	"github.com/cinescope/cinescope/internal/movies"
)

// memUserRepo is an in-memory auth.UserRepository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*auth.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return auth.ErrDuplicateEmail
		}
	}
	clone := *user
	r.users[user.ID.String()] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id.String()]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUserRepo) delete(id ulid.ULID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id.String())
}

func (r *memUserRepo) setRole(id ulid.ULID, role auth.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id.String()]; ok {
		u.Role = role
	}
}

// memLibraryRepo is an in-memory library.Repository.
type memLibraryRepo struct {
	mu        sync.Mutex
	favorites map[string]library.Favorite
	ratings   map[string]library.Rating
}

func newMemLibraryRepo() *memLibraryRepo {
	return &memLibraryRepo{
		favorites: make(map[string]library.Favorite),
		ratings:   make(map[string]library.Rating),
	}
}

func libKey(userID ulid.ULID, movieID string) string {
	return userID.String() + "/" + movieID
}

func (r *memLibraryRepo) ListFavorites(_ context.Context, userID ulid.ULID) ([]library.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []library.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memLibraryRepo) PutFavorite(_ context.Context, fav *library.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites[libKey(fav.UserID, fav.MovieID)] = *fav
	return nil
}

func (r *memLibraryRepo) DeleteFavorite(_ context.Context, userID ulid.ULID, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, libKey(userID, movieID))
	return nil
}

func (r *memLibraryRepo) ListRatings(_ context.Context, userID ulid.ULID) ([]library.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []library.Rating
	for _, rt := range r.ratings {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memLibraryRepo) PutRating(_ context.Context, rating *library.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[libKey(rating.UserID, rating.MovieID)] = *rating
	return nil
}

func (r *memLibraryRepo) DeleteRating(_ context.Context, userID ulid.ULID, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ratings, libKey(userID, movieID))
	return nil
}

func (r *memLibraryRepo) CountAll(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.favorites)), int64(len(r.ratings)), nil
}

// fixture bundles a fully wired API over in-memory stores.
type fixture struct {
	api   *API
	users *memUserRepo
	lib   *memLibraryRepo
	codec *auth.JWTCodec
	authS *auth.Service
}

// lightParams keeps argon2 cheap in tests.
var lightParams = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func newFixture(t *testing.T, opts ...func(*APIConfig)) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	users := newMemUserRepo()
	lib := newMemLibraryRepo()

	hasher := auth.NewArgon2idHasher(lightParams)
	codec, err := auth.NewJWTCodec([]byte("test-secret"))
	require.NoError(t, err)

	authSvc, err := auth.NewServiceWithLogger(users, hasher, codec, 0, logger)
	require.NoError(t, err)
	libSvc, err := library.NewServiceWithLogger(lib, logger)
	require.NoError(t, err)

	cfg := APIConfig{
		Auth:        authSvc,
		Library:     libSvc,
		Guard:       NewSessionGuard(codec, users, logger),
		UserCounter: users,
		Logger:      logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	api, err := NewAPI(cfg)
	require.NoError(t, err)

	return &fixture{api: api, users: users, lib: lib, codec: codec, authS: authSvc}
}

// register creates an account directly through the service and returns
// the user and a valid token.
func (f *fixture) register(t *testing.T, email string) (*auth.User, string) {
	t.Helper()
	user, token, err := f.authS.Register(context.Background(), email, "password123", "Test", "User")
	require.NoError(t, err)
	return user, token
}

// do runs one request through the full handler stack.
func (f *fixture) do(t *testing.T, method, target, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.api.Handler().ServeHTTP(rec, req)
	return rec
}

// fakeOMDb serves canned OMDb responses for proxy tests.
func fakeOMDb(t *testing.T, handler http.HandlerFunc) *movies.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := movies.NewClient(srv.URL+"/", "test-key", movies.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}
