package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"MovieScout/internal/config"
	"MovieScout/internal/domain"
	"MovieScout/internal/export"
	"MovieScout/internal/infrastructure/imdbapi"
	"MovieScout/internal/infrastructure/omdb"
	"MovieScout/internal/infrastructure/tmdb"
	"MovieScout/internal/logging"
	"MovieScout/internal/ports"
	"MovieScout/internal/source"
	"MovieScout/internal/usecase"
)

// Application wires configuration to the fetcher and the exporters.
type Application struct {
	cfg       config.Config
	fetcher   *usecase.Fetcher
	exporters []ports.Exporter
}

// New builds a runnable application instance. Config must already be
// validated; unknown enabled-source names still fail here.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := source.NewRegistry()
	registry.Register(omdb.New(cfg.Sources.OMDB, baseLogger.With("component", "source.omdb")))
	registry.Register(tmdb.New(cfg.Sources.TMDB, baseLogger.With("component", "source.tmdb")))
	registry.Register(imdbapi.New(cfg.Sources.IMDbAPI, baseLogger.With("component", "source.imdbapi")))

	enabled, err := registry.ResolveAll(cfg.Sources.Enabled)
	if err != nil {
		return nil, fmt.Errorf("resolve enabled sources: %w", err)
	}

	fetcher := usecase.NewFetcher(usecase.FetcherDeps{
		Sources:    enabled,
		Logger:     baseLogger.With("component", "fetcher"),
		TitleDelay: millis(cfg.Fetch.TitleDelayMS),
	})

	exporters, err := export.ForFormats(cfg.Output.Formats, cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("configure exporters: %w", err)
	}

	return &Application{cfg: cfg, fetcher: fetcher, exporters: exporters}, nil
}

// FetchByTitles runs the title-list workflow.
func (a *Application) FetchByTitles(ctx context.Context, titles []string, filter domain.Filter) ([]*domain.Movie, error) {
	return a.fetcher.FetchByTitles(ctx, titles, filter)
}

// Discover runs the paginated discovery workflow. A maxPages of zero falls
// back to the configured default.
func (a *Application) Discover(ctx context.Context, filter domain.Filter, maxPages int, onProgress ports.ProgressFunc) ([]*domain.Movie, error) {
	if maxPages <= 0 {
		maxPages = a.cfg.Fetch.MaxPages
	}
	return a.fetcher.Discover(ctx, filter, maxPages, onProgress)
}

// EnrichAll runs the enrichment workflow over an existing record set.
func (a *Application) EnrichAll(ctx context.Context, records []*domain.Movie) ([]*domain.Movie, error) {
	return a.fetcher.EnrichAll(ctx, records)
}

// Export hands the result to every configured exporter and returns the
// written paths.
func (a *Application) Export(workflow string, movies []*domain.Movie) ([]string, error) {
	result := ports.Result{Workflow: workflow, Movies: movies, Total: len(movies)}

	paths := make([]string, 0, len(a.exporters))
	for _, exporter := range a.exporters {
		path, err := exporter.Export(result)
		if err != nil {
			return paths, fmt.Errorf("%s export: %w", exporter.Name(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
