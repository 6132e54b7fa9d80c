// Package imdbapi adapts the free IMDbAPI service (https://api.imdbapi.dev),
// the best-effort source: id lookup only, key optional.
package imdbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MovieScout/internal/config"
	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
	"MovieScout/internal/source"
)

const sourceName = "imdbapi"

// Client implements ports.MovieSource backed by IMDbAPI.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *source.RateLimiter
	logger  *slog.Logger
}

var _ ports.MovieSource = (*Client)(nil)

// New builds the adapter from configuration. The key is optional; when set
// it is sent as an X-Api-Key header for the higher quota tier.
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

// SearchByTitle is unsupported upstream; callers rely on enrichment-by-id
// instead, so this returns an empty result rather than failing.
func (c *Client) SearchByTitle(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
	return []*domain.Movie{}, nil
}

// DetailsByID fetches one title record by IMDb id.
func (c *Client) DetailsByID(ctx context.Context, imdbID string) (*domain.Movie, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/titles/" + url.PathEscape(imdbID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("imdbapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imdbapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &source.NotFoundError{Source: sourceName, ID: imdbID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &source.StatusError{Source: sourceName, URL: endpoint, StatusCode: resp.StatusCode}
	}

	var payload titlePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("imdbapi: decode response: %w", err)
	}
	return normalize(payload), nil
}

// titlePayload mirrors the fields the adapter reads from a title response.
type titlePayload struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	PrimaryTitle   string   `json:"primaryTitle"`
	OriginalTitle  string   `json:"originalTitle"`
	StartYear      int      `json:"startYear"`
	RuntimeMinutes int      `json:"runtimeMinutes"`
	Genres         []string `json:"genres"`
	Plot           string   `json:"plot"`
	Rating         struct {
		AggregateRating float64 `json:"aggregateRating"`
		VoteCount       int     `json:"voteCount"`
	} `json:"rating"`
	OriginCountries []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"originCountries"`
}

// normalize translates an IMDbAPI payload into the canonical record.
// Returns nil for payloads too sparse to represent.
func normalize(p titlePayload) *domain.Movie {
	title := strings.TrimSpace(p.PrimaryTitle)
	if title == "" {
		return nil
	}

	m := &domain.Movie{
		Title:         title,
		OriginalTitle: strings.TrimSpace(p.OriginalTitle),
		Description:   strings.TrimSpace(p.Plot),
		Genre:         strings.Join(p.Genres, "/"),
		ImdbID:        strings.TrimSpace(p.ID),
		Cast:          []domain.CastMember{},
		OtherTitles:   []domain.OtherTitle{},
		Source:        sourceName,
	}

	if p.StartYear > 0 {
		year := p.StartYear
		m.ReleaseYear = &year
	}
	if p.RuntimeMinutes > 0 {
		mins := p.RuntimeMinutes
		m.RuntimeMin = &mins
	}
	if p.Rating.AggregateRating > 0 {
		rating := p.Rating.AggregateRating
		m.ImdbRating = &rating
	}
	if p.Rating.VoteCount > 0 {
		votes := p.Rating.VoteCount
		m.ImdbVotes = &votes
	}

	countries := make([]string, 0, len(p.OriginCountries))
	for _, c := range p.OriginCountries {
		if name := strings.TrimSpace(c.Name); name != "" {
			countries = append(countries, name)
		}
	}
	m.Country = strings.Join(countries, ", ")

	return m
}
