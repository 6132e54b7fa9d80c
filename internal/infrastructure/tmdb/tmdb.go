// Package tmdb adapts The Movie Database API (https://developer.themoviedb.org/),
// the bearer-authenticated source that also powers filtered discovery.
package tmdb

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

const sourceName = "tmdb"

// tmdbNotFoundCode is the status_code TMDB sets in its error envelope for
// "The resource you requested could not be found."
const tmdbNotFoundCode = 34

// Client implements ports.DiscoverySource backed by TMDB.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *source.RateLimiter
	logger  *slog.Logger
}

var _ ports.DiscoverySource = (*Client)(nil)

// New builds the adapter from configuration. The APIKey field carries the
// v4 read-access bearer token.
func New(cfg config.SourceConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: source.NewRateLimiter(cfg.RequestsPerSecond),
		logger:  logger,
	}
}

// Name identifies the adapter inside the registry and in provenance tags.
func (c *Client) Name() string {
	return sourceName
}

// SearchByTitle searches for the title and returns the top match with full
// details, since search results alone are too shallow to merge.
func (c *Client) SearchByTitle(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")
	if year != nil {
		params.Set("year", strconv.Itoa(*year))
	}

	var result searchResponse
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return []*domain.Movie{}, nil
	}

	movie, err := c.DetailsByNativeID(ctx, result.Results[0].ID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return []*domain.Movie{}, nil
	}
	return []*domain.Movie{movie}, nil
}

// DetailsByID bridges an IMDb id to a TMDB id via /find, then fetches the
// full record.
func (c *Client) DetailsByID(ctx context.Context, imdbID string) (*domain.Movie, error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")

	var result findResponse
	if err := c.get(ctx, "/find/"+url.PathEscape(imdbID), params, &result); err != nil {
		return nil, err
	}
	if len(result.MovieResults) == 0 {
		return nil, &source.NotFoundError{Source: sourceName, ID: imdbID}
	}

	return c.DetailsByNativeID(ctx, result.MovieResults[0].ID)
}

// DetailsByNativeID fetches one movie by TMDB id with credits and
// alternative titles appended.
func (c *Client) DetailsByNativeID(ctx context.Context, id int) (*domain.Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,alternative_titles")

	var payload detailsPayload
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &payload); err != nil {
		return nil, err
	}
	return normalizeDetails(payload), nil
}

// Genres fetches the movie genre dictionary keyed by lowercase name.
func (c *Client) Genres(ctx context.Context) (map[string]int, error) {
	var result genreListResponse
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &result); err != nil {
		return nil, err
	}

	genres := make(map[string]int, len(result.Genres))
	for _, g := range result.Genres {
		genres[strings.ToLower(g.Name)] = g.ID
	}
	return genres, nil
}

// Discover returns one page of shallow results for the query. Date bounds
// map to primary_release_date, genre ids to with_genres and a two-letter
// country term to with_origin_country; upstream does the country filtering.
func (c *Client) Discover(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	if q.StartDate != nil {
		params.Set("primary_release_date.gte", q.StartDate.Format("2006-01-02"))
	}
	if q.EndDate != nil {
		params.Set("primary_release_date.lte", q.EndDate.Format("2006-01-02"))
	}
	if len(q.GenreIDs) > 0 {
		ids := make([]string, len(q.GenreIDs))
		for i, id := range q.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if country := strings.TrimSpace(q.Country); len(country) == 2 {
		params.Set("with_origin_country", strings.ToUpper(country))
	}

	var result discoverResponse
	if err := c.get(ctx, "/discover/movie", params, &result); err != nil {
		return ports.DiscoveryPage{}, err
	}

	out := ports.DiscoveryPage{
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalResults: result.TotalResults,
		Results:      make([]*domain.Movie, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		if m := normalizeSearchResult(r); m != nil {
			out.Results = append(out.Results, m)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.StatusCode == tmdbNotFoundCode {
			return &source.NotFoundError{Source: sourceName, ID: path}
		}
		return &source.StatusError{
			Source:     sourceName,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    envelope.StatusMessage,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("tmdb: decode response: %w", err)
	}
	return nil
}
