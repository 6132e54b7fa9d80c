package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"MovieScout/internal/config"
	"MovieScout/internal/source"
)

const samplePayload = `{
	"Title": "Blade Runner",
	"Year": "1982",
	"Released": "25 Jun 1982",
	"Runtime": "117 min",
	"Genre": "Action, Drama, Sci-Fi",
	"Actors": "Harrison Ford, Rutger Hauer, Sean Young",
	"Plot": "A blade runner must pursue and terminate four replicants.",
	"Country": "United States",
	"Metascore": "84",
	"imdbRating": "8.1",
	"imdbVotes": "834,926",
	"imdbID": "tt0083658",
	"BoxOffice": "$32,914,489",
	"Response": "True"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(config.SourceConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		// keep tests fast
		RequestsPerSecond: 0,
	}, nil)
	return client, server
}

func TestSearchByTitleNormalizes(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("missing api key, got %q", got)
		}
		if got := r.URL.Query().Get("t"); got != "Blade Runner" {
			t.Errorf("unexpected title param %q", got)
		}
		w.Write([]byte(samplePayload))
	})

	results, err := client.SearchByTitle(context.Background(), "Blade Runner", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	m := results[0]
	if m.Title != "Blade Runner" {
		t.Fatalf("unexpected title %q", m.Title)
	}
	if m.ReleaseYear == nil || *m.ReleaseYear != 1982 {
		t.Fatalf("unexpected year %v", m.ReleaseYear)
	}
	if m.ReleaseMonth == nil || *m.ReleaseMonth != 6 || m.ReleaseDay == nil || *m.ReleaseDay != 25 {
		t.Fatalf("unexpected released date %v-%v", m.ReleaseMonth, m.ReleaseDay)
	}
	if m.RuntimeMin == nil || *m.RuntimeMin != 117 {
		t.Fatalf("unexpected runtime %v", m.RuntimeMin)
	}
	if m.Genre != "Action/Drama/Sci-Fi" {
		t.Fatalf("unexpected genre %q", m.Genre)
	}
	if len(m.Cast) != 3 || m.Cast[0].Name != "Harrison Ford" {
		t.Fatalf("unexpected cast %v", m.Cast)
	}
	if m.ImdbVotes == nil || *m.ImdbVotes != 834926 {
		t.Fatalf("unexpected votes %v", m.ImdbVotes)
	}
	if m.Metascore == nil || *m.Metascore != 84 {
		t.Fatalf("unexpected metascore %v", m.Metascore)
	}
	if m.GrossWorldwide == nil || *m.GrossWorldwide != 32914489 {
		t.Fatalf("unexpected box office %v", m.GrossWorldwide)
	}
	if m.Source != "omdb" {
		t.Fatalf("unexpected source tag %q", m.Source)
	}
	if m.OtherTitles == nil {
		t.Fatal("other titles must be an empty slice, not nil")
	}
}

func TestSearchByTitleNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	results, err := client.SearchByTitle(context.Background(), "does not exist", nil)
	if err != nil {
		t.Fatalf("expected empty result without error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestDetailsByIDNotFoundDistinctFromTransport(t *testing.T) {
	t.Parallel()

	notFound, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})
	_, err := notFound.DetailsByID(context.Background(), "tt9999999")
	var nfe *source.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	failing, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = failing.DetailsByID(context.Background(), "tt0083658")
	var se *source.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if errors.As(err, &nfe) {
		t.Fatal("transport failure must not look like not-found")
	}
}

func TestNormalizeSparsePayload(t *testing.T) {
	t.Parallel()

	m := normalize(moviePayload{
		Title:      "Obscure Film",
		Year:       "N/A",
		Released:   "N/A",
		Runtime:    "N/A",
		Genre:      "N/A",
		Actors:     "N/A",
		Metascore:  "N/A",
		ImdbRating: "N/A",
		ImdbVotes:  "N/A",
		BoxOffice:  "N/A",
		Response:   "True",
	})
	if m == nil {
		t.Fatal("sparse but titled payload must normalize")
	}
	if m.ReleaseYear != nil || m.RuntimeMin != nil || m.ImdbRating != nil || m.Metascore != nil {
		t.Fatalf("N/A fields must stay nil: %+v", m)
	}
	if m.Cast == nil || len(m.Cast) != 0 {
		t.Fatalf("cast must be an empty slice, got %v", m.Cast)
	}
}

func TestNormalizeUntitledPayloadIsNil(t *testing.T) {
	t.Parallel()

	if m := normalize(moviePayload{Response: "True"}); m != nil {
		t.Fatalf("expected nil for payload without title, got %+v", m)
	}
}

func TestNormalizeYearRangeForm(t *testing.T) {
	t.Parallel()

	m := normalize(moviePayload{Title: "Some Series", Year: "1999–", Response: "True"})
	if m.ReleaseYear == nil || *m.ReleaseYear != 1999 {
		t.Fatalf("expected range year parsed, got %v", m.ReleaseYear)
	}
}
