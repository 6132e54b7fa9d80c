package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
	"MovieScout/internal/source"
)

type stubSource struct {
	name      string
	searchFn  func(ctx context.Context, title string, year *int) ([]*domain.Movie, error)
	detailsFn func(ctx context.Context, imdbID string) (*domain.Movie, error)
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) SearchByTitle(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
	if s.searchFn == nil {
		return []*domain.Movie{}, nil
	}
	return s.searchFn(ctx, title, year)
}

func (s *stubSource) DetailsByID(ctx context.Context, imdbID string) (*domain.Movie, error) {
	if s.detailsFn == nil {
		return nil, &source.NotFoundError{Source: s.name, ID: imdbID}
	}
	return s.detailsFn(ctx, imdbID)
}

type stubDiscovery struct {
	stubSource
	genresFn   func(ctx context.Context) (map[string]int, error)
	discoverFn func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error)
	nativeFn   func(ctx context.Context, id int) (*domain.Movie, error)
}

func (s *stubDiscovery) Genres(ctx context.Context) (map[string]int, error) {
	if s.genresFn == nil {
		return map[string]int{}, nil
	}
	return s.genresFn(ctx)
}

func (s *stubDiscovery) Discover(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
	return s.discoverFn(ctx, q, page)
}

func (s *stubDiscovery) DetailsByNativeID(ctx context.Context, id int) (*domain.Movie, error) {
	if s.nativeFn == nil {
		return nil, &source.NotFoundError{Source: s.name, ID: fmt.Sprint(id)}
	}
	return s.nativeFn(ctx, id)
}

func fastFetcher(sources ...ports.MovieSource) *Fetcher {
	return NewFetcher(FetcherDeps{
		Sources:     sources,
		TitleDelay:  time.Millisecond,
		BatchPause:  time.Millisecond,
		EnrichDelay: time.Millisecond,
	})
}

func intPtr(v int) *int { return &v }

func shallowPage(startID, n, page, totalPages, totalResults int) ports.DiscoveryPage {
	p := ports.DiscoveryPage{Page: page, TotalPages: totalPages, TotalResults: totalResults}
	for i := 0; i < n; i++ {
		m := &domain.Movie{Title: fmt.Sprintf("Movie %d", startID+i), Source: "disc"}
		m.TmdbID = intPtr(startID + i)
		p.Results = append(p.Results, m)
	}
	return p
}

func TestFetchByTitlesMergesAcrossSources(t *testing.T) {
	t.Parallel()

	alpha := &stubSource{
		name: "alpha",
		searchFn: func(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
			return []*domain.Movie{{Title: "Example Movie", ImdbID: "tt0000001", Source: "alpha"}}, nil
		},
	}
	beta := &stubSource{
		name: "beta",
		searchFn: func(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
			return []*domain.Movie{{Title: "Example Movie", TmdbID: intPtr(42), Source: "beta"}}, nil
		},
	}

	movies, err := fastFetcher(alpha, beta).FetchByTitles(context.Background(), []string{"Example Movie"}, domain.Filter{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected one merged record, got %d", len(movies))
	}

	m := movies[0]
	if m.Title != "Example Movie" || m.ImdbID != "tt0000001" {
		t.Fatalf("unexpected identity: %+v", m)
	}
	if m.TmdbID == nil || *m.TmdbID != 42 {
		t.Fatalf("expected tmdb id merged in, got %v", m.TmdbID)
	}
	if len(m.Sources) != 2 || m.Sources[0] != "alpha" || m.Sources[1] != "beta" {
		t.Fatalf("unexpected provenance %v", m.Sources)
	}
}

func TestFetchByTitlesSkipsFailingSource(t *testing.T) {
	t.Parallel()

	broken := &stubSource{
		name: "broken",
		searchFn: func(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
			return nil, errors.New("connection refused")
		},
	}
	working := &stubSource{
		name: "working",
		searchFn: func(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
			return []*domain.Movie{{Title: title, Source: "working"}}, nil
		},
	}

	movies, err := fastFetcher(broken, working).FetchByTitles(context.Background(), []string{"Heat", "Ran"}, domain.Filter{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected both titles despite one broken source, got %d", len(movies))
	}
	if len(movies[0].Sources) != 1 || movies[0].Sources[0] != "working" {
		t.Fatalf("unexpected provenance %v", movies[0].Sources)
	}
}

func TestFetchByTitlesAppliesFilter(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		name: "src",
		searchFn: func(ctx context.Context, title string, year *int) ([]*domain.Movie, error) {
			return []*domain.Movie{{Title: title, Genre: "Comedy", Source: "src"}}, nil
		},
	}

	movies, err := fastFetcher(src).FetchByTitles(context.Background(), []string{"Some Film"}, domain.Filter{Genre: "drama"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected record filtered out, got %d", len(movies))
	}
}

func TestDiscoverStopsOnPartialPage(t *testing.T) {
	t.Parallel()

	var pagesFetched atomic.Int32
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			pagesFetched.Add(1)
			switch page {
			case 1:
				return shallowPage(1, 20, 1, 10, 27), nil
			case 2:
				return shallowPage(21, 7, 2, 10, 27), nil
			default:
				t.Errorf("unexpected fetch of page %d", page)
				return ports.DiscoveryPage{}, nil
			}
		},
		nativeFn: func(ctx context.Context, id int) (*domain.Movie, error) {
			return &domain.Movie{Title: fmt.Sprintf("Movie %d", id), TmdbID: intPtr(id), Source: "disc"}, nil
		},
	}

	movies, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{}, 10, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(movies) != 27 {
		t.Fatalf("expected 27 records, got %d", len(movies))
	}
	if got := pagesFetched.Load(); got != 2 {
		t.Fatalf("expected discovery to stop after page 2, fetched %d pages", got)
	}
}

func TestDiscoverStopsAfterEmptyStreak(t *testing.T) {
	t.Parallel()

	var pagesFetched atomic.Int32
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			pagesFetched.Add(1)
			return ports.DiscoveryPage{Page: page, TotalPages: 10, TotalResults: 200}, nil
		},
	}

	movies, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{}, 10, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected no records, got %d", len(movies))
	}
	if got := pagesFetched.Load(); got != 3 {
		t.Fatalf("expected abandonment after 3 empty pages, fetched %d", got)
	}
}

func TestDiscoverCountsFailedPagesTowardStreak(t *testing.T) {
	t.Parallel()

	var pagesFetched atomic.Int32
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			pagesFetched.Add(1)
			return ports.DiscoveryPage{}, errors.New("gateway timeout")
		},
	}

	if _, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{}, 10, nil); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got := pagesFetched.Load(); got != 3 {
		t.Fatalf("expected 3 attempts before abandonment, got %d", got)
	}
}

func TestDiscoverResolvesGenreIDs(t *testing.T) {
	t.Parallel()

	var captured ports.DiscoveryQuery
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		genresFn: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{"drama": 18, "science fiction": 878}, nil
		},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			captured = q
			return ports.DiscoveryPage{Page: page, TotalPages: 1}, nil
		},
	}

	_, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{Genre: "Drama, Western"}, 1, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	// "western" is absent from the dictionary and is dropped with a
	// warning rather than failing the workflow.
	if len(captured.GenreIDs) != 1 || captured.GenreIDs[0] != 18 {
		t.Fatalf("unexpected genre ids %v", captured.GenreIDs)
	}
}

func TestDiscoverRefiltersGenreButTrustsUpstreamCountry(t *testing.T) {
	t.Parallel()

	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			return shallowPage(1, 2, 1, 1, 2), nil
		},
		nativeFn: func(ctx context.Context, id int) (*domain.Movie, error) {
			if id == 1 {
				// Country deliberately contradicts the filter: discovery
				// trusts the upstream origin-country filtering.
				return &domain.Movie{Title: "Kept", Genre: "Drama", Country: "Germany", TmdbID: intPtr(id), Source: "disc"}, nil
			}
			return &domain.Movie{Title: "Dropped", Genre: "Comedy", Country: "Poland", TmdbID: intPtr(id), Source: "disc"}, nil
		},
	}

	movies, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{Country: "pl", Genre: "drama"}, 1, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Kept" {
		t.Fatalf("expected genre re-check only, got %v", movies)
	}
}

func TestDiscoverResolvesFullCountryNameToCode(t *testing.T) {
	t.Parallel()

	var captured ports.DiscoveryQuery
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			captured = q
			return shallowPage(1, 1, 1, 1, 1), nil
		},
		nativeFn: func(ctx context.Context, id int) (*domain.Movie, error) {
			// Contradicts the filter on purpose: a forwarded country code
			// means the upstream answer is trusted as-is.
			return &domain.Movie{Title: "Kept", Country: "Germany", TmdbID: intPtr(id), Source: "disc"}, nil
		},
	}

	movies, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{Country: "poland"}, 1, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if captured.Country != "pl" {
		t.Fatalf("expected country forwarded as code pl, got %q", captured.Country)
	}
	if len(movies) != 1 || movies[0].Title != "Kept" {
		t.Fatalf("expected upstream country trust, got %v", movies)
	}
}

func TestDiscoverKeepsCountryRecheckForUnresolvedTerm(t *testing.T) {
	t.Parallel()

	var captured ports.DiscoveryQuery
	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			captured = q
			return shallowPage(1, 2, 1, 1, 2), nil
		},
		nativeFn: func(ctx context.Context, id int) (*domain.Movie, error) {
			if id == 1 {
				return &domain.Movie{Title: "Kept", Country: "Ruritania", TmdbID: intPtr(id), Source: "disc"}, nil
			}
			return &domain.Movie{Title: "Dropped", Country: "Poland", TmdbID: intPtr(id), Source: "disc"}, nil
		},
	}

	movies, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{Country: "ruritania"}, 1, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	// The term has no origin-country code, so nothing is forwarded and the
	// country dimension must survive into the client-side re-filter.
	if captured.Country != "" {
		t.Fatalf("expected no upstream country param, got %q", captured.Country)
	}
	if len(movies) != 1 || movies[0].Title != "Kept" {
		t.Fatalf("expected client-side country re-filter, got %v", movies)
	}
}

func TestDiscoverReportsProgress(t *testing.T) {
	t.Parallel()

	disc := &stubDiscovery{
		stubSource: stubSource{name: "disc"},
		discoverFn: func(ctx context.Context, q ports.DiscoveryQuery, page int) (ports.DiscoveryPage, error) {
			return shallowPage(1, 12, 1, 1, 12), nil
		},
		nativeFn: func(ctx context.Context, id int) (*domain.Movie, error) {
			return &domain.Movie{Title: fmt.Sprintf("Movie %d", id), TmdbID: intPtr(id), Source: "disc"}, nil
		},
	}

	var snapshots []ports.Progress
	_, err := fastFetcher(disc).Discover(context.Background(), domain.Filter{}, 1, func(p ports.Progress) {
		snapshots = append(snapshots, p)
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	// 12 results in sub-batches of 5 => 3 progress snapshots.
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	last := snapshots[len(snapshots)-1]
	if last.CurrentResults != 12 || last.Page != 1 || last.TotalResults != 12 {
		t.Fatalf("unexpected final snapshot %+v", last)
	}
}

func TestDiscoverWithoutCapableSource(t *testing.T) {
	t.Parallel()

	plain := &stubSource{name: "plain"}
	movies, err := fastFetcher(plain).Discover(context.Background(), domain.Filter{}, 5, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected empty result, got %d", len(movies))
	}
}

func TestEnrichAllFillsFromMissingSources(t *testing.T) {
	t.Parallel()

	alpha := &stubSource{name: "alpha"}
	beta := &stubSource{
		name: "beta",
		detailsFn: func(ctx context.Context, imdbID string) (*domain.Movie, error) {
			return &domain.Movie{Title: "Example Movie", TmdbID: intPtr(42), Source: "beta"}, nil
		},
	}

	original := &domain.Movie{Title: "Example Movie", ImdbID: "tt0000001", Source: "alpha", Sources: []string{"alpha"}}
	enriched, err := fastFetcher(alpha, beta).EnrichAll(context.Background(), []*domain.Movie{original})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("expected one record, got %d", len(enriched))
	}

	m := enriched[0]
	if m.TmdbID == nil || *m.TmdbID != 42 {
		t.Fatalf("expected tmdb id filled, got %v", m.TmdbID)
	}
	if len(m.Sources) != 2 || m.Sources[1] != "beta" {
		t.Fatalf("unexpected provenance %v", m.Sources)
	}
}

func TestEnrichAllKeepsOriginalOnFailure(t *testing.T) {
	t.Parallel()

	failing := &stubSource{
		name: "failing",
		detailsFn: func(ctx context.Context, imdbID string) (*domain.Movie, error) {
			return nil, errors.New("boom")
		},
	}

	original := &domain.Movie{Title: "Heat", ImdbID: "tt0113277", Source: "alpha", Sources: []string{"alpha"}}
	enriched, err := fastFetcher(failing).EnrichAll(context.Background(), []*domain.Movie{original})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(enriched) != 1 || enriched[0] != original {
		t.Fatalf("expected original record kept, got %+v", enriched)
	}
}

func TestEnrichAllSkipsRecordsWithoutID(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	src := &stubSource{
		name: "src",
		detailsFn: func(ctx context.Context, imdbID string) (*domain.Movie, error) {
			called.Store(true)
			return nil, nil
		},
	}

	original := &domain.Movie{Title: "No ID", Source: "other"}
	enriched, err := fastFetcher(src).EnrichAll(context.Background(), []*domain.Movie{original})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if enriched[0] != original {
		t.Fatal("expected record passed through untouched")
	}
	if called.Load() {
		t.Fatal("no lookup should happen without a cross-reference id")
	}
}

func TestFetchByTitlesCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &stubSource{name: "src"}
	_, err := fastFetcher(src).FetchByTitles(ctx, []string{"A", "B"}, domain.Filter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
