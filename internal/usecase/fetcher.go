package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
)

const (
	// fullPageSize is the upstream discovery page size; a shorter page
	// signals the last one.
	fullPageSize = 20

	// detailBatchSize bounds in-flight detail lookups within one page.
	detailBatchSize = 5

	// emptyStreakLimit abandons discovery after this many consecutive
	// empty or failed pages, even if more pages nominally remain.
	emptyStreakLimit = 3

	// pageCeiling is the hard upper bound on discovery pages per run.
	pageCeiling = 500

	defaultTitleDelay  = 500 * time.Millisecond
	defaultBatchPause  = 250 * time.Millisecond
	defaultEnrichDelay = 250 * time.Millisecond
)

// FetcherDeps wires the enabled source adapters into the orchestrator.
// Slice order is merge priority: earlier sources win field conflicts.
type FetcherDeps struct {
	Sources     []ports.MovieSource
	Logger      *slog.Logger
	TitleDelay  time.Duration
	BatchPause  time.Duration
	EnrichDelay time.Duration
}

// Fetcher drives the three workflows: title-list fetch, filtered discovery
// and enrichment. Per-item failures are logged and skipped; the only fatal
// error any workflow returns is context cancellation.
type Fetcher struct {
	sources     []ports.MovieSource
	logger      *slog.Logger
	titleDelay  time.Duration
	batchPause  time.Duration
	enrichDelay time.Duration
}

// NewFetcher constructs the orchestration component.
func NewFetcher(deps FetcherDeps) *Fetcher {
	f := &Fetcher{
		sources:     deps.Sources,
		logger:      deps.Logger,
		titleDelay:  deps.TitleDelay,
		batchPause:  deps.BatchPause,
		enrichDelay: deps.EnrichDelay,
	}
	if f.titleDelay <= 0 {
		f.titleDelay = defaultTitleDelay
	}
	if f.batchPause <= 0 {
		f.batchPause = defaultBatchPause
	}
	if f.enrichDelay <= 0 {
		f.enrichDelay = defaultEnrichDelay
	}
	return f
}

// FetchByTitles queries every enabled source per title, merges the
// per-source results and keeps those passing the filter. Failed or
// non-matching titles are simply absent from the result.
func (f *Fetcher) FetchByTitles(ctx context.Context, titles []string, filter domain.Filter) ([]*domain.Movie, error) {
	collected := make([]*domain.Movie, 0, len(titles))

	for i, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		if i > 0 {
			if err := sleep(ctx, f.titleDelay); err != nil {
				return collected, err
			}
		}

		var parts []*domain.Movie
		for _, src := range f.sources {
			results, err := src.SearchByTitle(ctx, title, nil)
			if !f.attempt(ctx, err, "search failed", "source", src.Name(), "title", title) {
				if ctx.Err() != nil {
					return collected, ctx.Err()
				}
				continue
			}
			for _, r := range results {
				if r != nil {
					parts = append(parts, r)
				}
			}
		}

		merged := domain.Merge(parts)
		if merged == nil {
			f.debug("no source matched title", "title", title)
			continue
		}
		if !filter.Matches(merged) {
			f.debug("filtered out", "title", merged.Title)
			continue
		}
		collected = append(collected, merged)
	}

	return collected, nil
}

// Discover runs the paginated bulk-retrieval workflow against the first
// discovery-capable source. A country term that resolves to an origin
// country code is delegated to the upstream query; date, genre, and any
// unresolved country term are re-verified client-side per record.
func (f *Fetcher) Discover(ctx context.Context, filter domain.Filter, maxPages int, onProgress ports.ProgressFunc) ([]*domain.Movie, error) {
	ds := f.discoverySource()
	if ds == nil {
		f.warn("discovery requires a discovery-capable source; none enabled")
		return []*domain.Movie{}, nil
	}

	query, err := f.buildQuery(ctx, ds, filter)
	if err != nil {
		if ctx.Err() != nil {
			return []*domain.Movie{}, ctx.Err()
		}
		f.warn("genre resolution failed", "error", err)
	}

	// The per-record re-filter drops the country dimension only when the
	// term resolved to an origin-country code the upstream query already
	// filters on; otherwise the country check stays client-side.
	recheck := filter
	if query.Country != "" {
		recheck.Country = ""
	}

	limit := maxPages
	if limit <= 0 || limit > pageCeiling {
		limit = pageCeiling
	}

	collected := []*domain.Movie{}
	emptyStreak := 0
	totalPages := 0
	totalResults := 0

	for page := 1; page <= limit; page++ {
		pageData, err := ds.Discover(ctx, query, page)
		if err != nil {
			if ctx.Err() != nil {
				return collected, ctx.Err()
			}
			// An isolated transport blip counts toward the empty streak
			// instead of killing a long-running discovery.
			f.warn("discover page failed", "page", page, "error", err)
			emptyStreak++
			if emptyStreak >= emptyStreakLimit {
				break
			}
			continue
		}

		if pageData.TotalPages > 0 {
			totalPages = pageData.TotalPages
		}
		if pageData.TotalResults > 0 {
			totalResults = pageData.TotalResults
		}

		if len(pageData.Results) == 0 {
			emptyStreak++
			if emptyStreak >= emptyStreakLimit {
				break
			}
			if totalPages > 0 && page >= totalPages {
				break
			}
			continue
		}
		emptyStreak = 0

		if err := f.processPage(ctx, ds, pageData.Results, recheck, &collected, ports.Progress{
			Page:         page,
			TotalPages:   totalPages,
			TotalResults: totalResults,
		}, onProgress); err != nil {
			return collected, err
		}

		if len(pageData.Results) < fullPageSize {
			break
		}
		if totalPages > 0 && page >= totalPages {
			break
		}
	}

	return collected, nil
}

// processPage resolves full details for one page of shallow results in
// bounded sub-batches, re-filters and accumulates them in page order.
func (f *Fetcher) processPage(ctx context.Context, ds ports.DiscoverySource, results []*domain.Movie, recheck domain.Filter, collected *[]*domain.Movie, progress ports.Progress, onProgress ports.ProgressFunc) error {
	for start := 0; start < len(results); start += detailBatchSize {
		if start > 0 {
			if err := sleep(ctx, f.batchPause); err != nil {
				return err
			}
		}

		end := start + detailBatchSize
		if end > len(results) {
			end = len(results)
		}
		batch := results[start:end]
		details := make([]*domain.Movie, len(batch))

		// Join-all: every member of the sub-batch resolves (success or
		// failure) before the next sub-batch starts.
		g, gctx := errgroup.WithContext(ctx)
		for i, shallow := range batch {
			i, shallow := i, shallow
			g.Go(func() error {
				if shallow.TmdbID == nil {
					return nil
				}
				detail, err := ds.DetailsByNativeID(gctx, *shallow.TmdbID)
				if !f.attempt(gctx, err, "detail lookup failed", "source", ds.Name(), "id", *shallow.TmdbID) {
					return nil
				}
				details[i] = detail
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		for _, detail := range details {
			if detail == nil {
				continue
			}
			if !recheck.Matches(detail) {
				continue
			}
			*collected = append(*collected, detail)
		}

		if onProgress != nil {
			progress.CurrentResults = len(*collected)
			onProgress(progress)
		}
	}
	return nil
}

// buildQuery translates the generic filter into the discovery source's
// parameters: genre names resolve to ids via the source's dictionary and
// the country term to an ISO origin-country code. Unresolved genre names
// are dropped with a warning, not a hard failure; an unresolved country
// term is left to the client-side recheck.
func (f *Fetcher) buildQuery(ctx context.Context, ds ports.DiscoverySource, filter domain.Filter) (ports.DiscoveryQuery, error) {
	query := ports.DiscoveryQuery{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if code, ok := domain.CountryCode(filter.Country); ok {
		query.Country = code
	} else if strings.TrimSpace(filter.Country) != "" {
		f.warn("country term has no origin-country code; re-filtering client-side", "country", filter.Country)
	}
	if filter.Genre == "" {
		return query, nil
	}

	dictionary, err := ds.Genres(ctx)
	if err != nil {
		return query, err
	}
	for _, name := range strings.Split(filter.Genre, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		id, ok := dictionary[name]
		if !ok {
			f.warn("unknown genre dropped from discovery query", "genre", name)
			continue
		}
		query.GenreIDs = append(query.GenreIDs, id)
	}
	return query, nil
}

// EnrichAll augments each record carrying a cross-reference id with detail
// from every enabled source not yet represented in its provenance.
// Enrichment is best effort: per-source failures are swallowed and the
// original record is kept whenever merging yields nothing better.
func (f *Fetcher) EnrichAll(ctx context.Context, records []*domain.Movie) ([]*domain.Movie, error) {
	out := make([]*domain.Movie, 0, len(records))

	for i, rec := range records {
		if rec == nil {
			continue
		}
		if i > 0 {
			if err := sleep(ctx, f.enrichDelay); err != nil {
				return append(out, records[i:]...), err
			}
		}

		enriched := f.enrichOne(ctx, rec)
		if enriched == nil {
			enriched = rec
		}
		out = append(out, enriched)

		if ctx.Err() != nil {
			return append(out, records[i+1:]...), ctx.Err()
		}
	}

	return out, nil
}

func (f *Fetcher) enrichOne(ctx context.Context, rec *domain.Movie) *domain.Movie {
	if rec.ImdbID == "" {
		return rec
	}

	represented := make(map[string]struct{}, len(rec.Sources)+1)
	if rec.Source != "" {
		represented[rec.Source] = struct{}{}
	}
	for _, tag := range rec.Sources {
		represented[tag] = struct{}{}
	}

	parts := []*domain.Movie{rec}
	for _, src := range f.sources {
		if _, ok := represented[src.Name()]; ok {
			continue
		}
		extra, err := src.DetailsByID(ctx, rec.ImdbID)
		if err != nil {
			f.debug("enrichment lookup failed", "source", src.Name(), "id", rec.ImdbID, "error", err)
			continue
		}
		if extra != nil {
			parts = append(parts, extra)
		}
	}

	if len(parts) == 1 {
		return rec
	}
	return domain.Merge(parts)
}

func (f *Fetcher) discoverySource() ports.DiscoverySource {
	for _, src := range f.sources {
		if ds, ok := src.(ports.DiscoverySource); ok {
			return ds
		}
	}
	return nil
}

// attempt is the single per-item skip policy: a nil error passes, anything
// else is logged as a recoverable warning and reported as a skip.
func (f *Fetcher) attempt(ctx context.Context, err error, msg string, args ...any) bool {
	if err == nil {
		return true
	}
	if ctx.Err() == nil {
		f.warn(msg, append(args, "error", err)...)
	}
	return false
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
