// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package movies

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/cinescope/cinescope/internal/observability"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

const (
	defaultTimeout    = 10 * time.Second
	retryBaseInterval = 200 * time.Millisecond
	maxRetries        = 3
)

// Movie is an OMDb record. Field names follow the OMDb wire format so
// responses pass through to API clients unchanged.
type Movie struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Type       string `json:"Type"`
	Poster     string `json:"Poster"`
	Genre      string `json:"Genre,omitempty"`
	Director   string `json:"Director,omitempty"`
	Actors     string `json:"Actors,omitempty"`
	Plot       string `json:"Plot,omitempty"`
	Runtime    string `json:"Runtime,omitempty"`
	Released   string `json:"Released,omitempty"`
	ImdbRating string `json:"imdbRating,omitempty"`
	Country    string `json:"Country,omitempty"`
	Language   string `json:"Language,omitempty"`
}

// SearchResult holds one page of search matches.
type SearchResult struct {
	Movies       []Movie `json:"movies"`
	TotalResults int     `json:"totalResults"`
	Page         int     `json:"page"`
}

// omdbEnvelope is the raw OMDb response shape shared by search and
// detail lookups. OMDb signals errors in-band with Response=False.
type omdbEnvelope struct {
	Movie
	Search       []Movie `json:"Search"`
	TotalResults string  `json:"totalResults"`
	Response     string  `json:"Response"`
	Error        string  `json:"Error"`
}

// Client calls the OMDb API with retries on transient failures.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger sets the logger for upstream failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates an OMDb client. baseURL falls back to
// DefaultBaseURL when empty; apiKey is required.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, oops.Code("OMDB_CONFIG_INVALID").New("omdb api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search looks up movies matching query. page is 1-based; values below
// 1 are treated as 1.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, oops.Code("OMDB_QUERY_EMPTY").New("search query is required")
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("s", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("type", "movie")

	env, err := c.get(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(env.Response, "True") {
		return nil, mapOMDbError(env.Error, oops.With("query", query).With("page", page))
	}

	total, err := strconv.Atoi(env.TotalResults)
	if err != nil {
		total = len(env.Search)
	}

	return &SearchResult{
		Movies:       env.Search,
		TotalResults: total,
		Page:         page,
	}, nil
}

// Details fetches the full record for an IMDb ID, including the full
// plot.
func (c *Client) Details(ctx context.Context, imdbID string) (*Movie, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, oops.Code("OMDB_ID_EMPTY").New("imdb id is required")
	}

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	env, err := c.get(ctx, "details", params)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(env.Response, "True") {
		return nil, mapOMDbError(env.Error, oops.With("imdb_id", imdbID))
	}

	movie := env.Movie
	return &movie, nil
}

// get performs one OMDb GET with retries. Network errors, 429 and 5xx
// responses are retried; everything else fails immediately.
func (c *Client) get(ctx context.Context, operation string, params url.Values) (*omdbEnvelope, error) {
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBaseInterval))

	var env omdbEnvelope
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return oops.Code("OMDB_REQUEST_INVALID").Wrap(err)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(oops.
				With("status", resp.StatusCode).
				Errorf("omdb returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return oops.Code("OMDB_UNEXPECTED_STATUS").
				With("status", resp.StatusCode).
				Errorf("omdb returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return oops.Code("OMDB_RESPONSE_INVALID").Wrap(err)
		}
		return nil
	})
	if err != nil {
		// Non-retryable oops errors pass through with their own codes.
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() != nil {
			return nil, err
		}

		observability.RecordOMDbLookupFailure(operation)
		c.logger.Warn("omdb lookup failed",
			"operation", operation,
			"error", err)
		return nil, oops.Code("OMDB_UNAVAILABLE").
			With("operation", operation).
			Wrapf(errors.Join(ErrUpstream, err), "omdb request failed after retries")
	}
	return &env, nil
}

// mapOMDbError translates OMDb's in-band error strings into domain
// errors. Unknown messages are passed through as upstream rejections.
func mapOMDbError(message string, builder oops.OopsErrorBuilder) error {
	switch {
	case strings.EqualFold(message, "Movie not found!"),
		strings.EqualFold(message, "Incorrect IMDb ID."),
		strings.EqualFold(message, "Error getting data."):
		return builder.Code("MOVIE_NOT_FOUND").Wrap(ErrNotFound)
	case strings.EqualFold(message, "Too many results."):
		return builder.Code("MOVIE_QUERY_TOO_BROAD").Wrap(ErrTooManyResults)
	default:
		return builder.Code("OMDB_REJECTED").With("omdb_error", message).
			Wrapf(ErrUpstream, "omdb rejected request: %s", message)
	}
}
