package imdbapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MovieScout/internal/config"
	"MovieScout/internal/source"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(config.SourceConfig{
		BaseURL:           server.URL,
		RequestsPerSecond: 0,
	}, nil)
}

func TestSearchByTitleAlwaysEmpty(t *testing.T) {
	t.Parallel()

	// No server: search must not touch the network at all.
	client := New(config.SourceConfig{BaseURL: "http://127.0.0.1:0"}, nil)

	results, err := client.SearchByTitle(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("search must never fail: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %d", len(results))
	}
}

func TestDetailsByIDNormalizes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/titles/tt0083658" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id": "tt0083658",
			"type": "movie",
			"primaryTitle": "Blade Runner",
			"originalTitle": "Blade Runner",
			"startYear": 1982,
			"runtimeMinutes": 117,
			"genres": ["Action", "Drama", "Sci-Fi"],
			"plot": "A blade runner must pursue and terminate four replicants.",
			"rating": {"aggregateRating": 8.1, "voteCount": 834926},
			"originCountries": [{"code": "US", "name": "United States"}]
		}`)
	})

	m, err := client.DetailsByID(context.Background(), "tt0083658")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if m.Title != "Blade Runner" || m.ImdbID != "tt0083658" {
		t.Fatalf("unexpected identity: %q %q", m.Title, m.ImdbID)
	}
	if m.Genre != "Action/Drama/Sci-Fi" {
		t.Fatalf("unexpected genre %q", m.Genre)
	}
	if m.ImdbRating == nil || *m.ImdbRating != 8.1 {
		t.Fatalf("unexpected rating %v", m.ImdbRating)
	}
	if m.Country != "United States" {
		t.Fatalf("unexpected country %q", m.Country)
	}
	if m.Source != "imdbapi" {
		t.Fatalf("unexpected source tag %q", m.Source)
	}
	if m.Cast == nil || m.OtherTitles == nil {
		t.Fatal("array fields must be empty slices, not nil")
	}
}

func TestDetailsByIDSendsOptionalKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("expected api key header, got %q", got)
		}
		fmt.Fprint(w, `{"id":"tt1","primaryTitle":"X"}`)
	}))
	t.Cleanup(server.Close)

	client := New(config.SourceConfig{BaseURL: server.URL, APIKey: "secret"}, nil)
	if _, err := client.DetailsByID(context.Background(), "tt1"); err != nil {
		t.Fatalf("details: %v", err)
	}
}

func TestDetailsByIDNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.DetailsByID(context.Background(), "tt9999999")
	var nfe *source.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
