// Package omdb adapts the OMDb API (https://www.omdbapi.com/), the
// key-required source supplying IMDb ratings, Metascore and box office data.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"MovieScout/internal/config"
	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
	"MovieScout/internal/source"
)

const sourceName = "omdb"

// Client implements ports.MovieSource backed by OMDb.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *source.RateLimiter
	logger  *slog.Logger
}

var _ ports.MovieSource = (*Client)(nil)

// New builds the adapter from configuration.
func New(cfg config.SourceConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: source.NewRateLimiter(cfg.RequestsPerSecond),
		logger:  logger,
	}
}

// Name identifies the adapter inside the registry and in provenance tags.
func (c *Client) Name() string {
	return sourceName
}

// SearchByTitle fetches the best title match via OMDb's t= lookup. OMDb
// reports "Movie not found!" inside a 200 body; for a search that is an
// empty result, not an error.
func (c *Client) SearchByTitle(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("type", "movie")
	params.Set("plot", "full")
	if year != nil {
		params.Set("y", strconv.Itoa(*year))
	}

	var payload moviePayload
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if strings.EqualFold(payload.Response, "False") {
		c.debug("no match", "title", title, "reason", payload.Error)
		return []*domain.Movie{}, nil
	}

	movie := normalize(payload)
	if movie == nil {
		return []*domain.Movie{}, nil
	}
	return []*domain.Movie{movie}, nil
}

// DetailsByID looks up one record by IMDb id. An explicit not-found body is
// surfaced as source.NotFoundError so callers can log-and-skip.
func (c *Client) DetailsByID(ctx context.Context, imdbID string) (*domain.Movie, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var payload moviePayload
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if strings.EqualFold(payload.Response, "False") {
		return nil, &source.NotFoundError{Source: sourceName, ID: imdbID}
	}

	return normalize(payload), nil
}

func (c *Client) get(ctx context.Context, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("omdb: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("omdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &source.StatusError{Source: sourceName, URL: c.baseURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("omdb: decode response: %w", err)
	}
	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
