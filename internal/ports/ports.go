// Package ports declares the interfaces between the orchestration layer and
// the infrastructure adapters.
package ports

import (
	"context"
	"time"

	"MovieScout/internal/domain"
)

// MovieSource is one upstream metadata API. Implementations normalize their
// payloads into domain.Movie and pace their own outbound requests.
type MovieSource interface {
	// Name is the registry key and the provenance tag.
	Name() string

	// SearchByTitle returns normalized candidates for a title, best match
	// first. A source without search capability returns an empty slice,
	// not an error. The year narrows the search when non-nil.
	SearchByTitle(ctx context.Context, title string, year *int) ([]*domain.Movie, error)

	// DetailsByID fetches one record by IMDb id. A missing record is a
	// *source.NotFoundError, distinct from transport failures.
	DetailsByID(ctx context.Context, imdbID string) (*domain.Movie, error)
}

// DiscoveryQuery holds the upstream-side parameters of a discovery run.
type DiscoveryQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	GenreIDs  []int
	Country   string
}

// DiscoveryPage is one page of shallow discovery results plus the source's
// pagination envelope.
type DiscoveryPage struct {
	Results      []*domain.Movie
	Page         int
	TotalPages   int
	TotalResults int
}

// DiscoverySource extends MovieSource with filtered bulk retrieval.
type DiscoverySource interface {
	MovieSource

	// Genres returns the source's genre dictionary keyed by lowercase name.
	Genres(ctx context.Context) (map[string]int, error)

	// Discover fetches one page of shallow results for the query.
	Discover(ctx context.Context, q DiscoveryQuery, page int) (DiscoveryPage, error)

	// DetailsByNativeID fetches a full record by the source's own id, used
	// to deepen shallow discovery results.
	DetailsByNativeID(ctx context.Context, id int) (*domain.Movie, error)
}

// Progress is a point-in-time snapshot of a discovery run.
type Progress struct {
	Page           int
	TotalPages     int
	CurrentResults int
	TotalResults   int
}

// ProgressFunc receives progress snapshots; a nil callback disables them.
type ProgressFunc func(Progress)

// Result is the finished record set handed to exporters.
type Result struct {
	Workflow string
	Movies   []*domain.Movie
	Total    int
}

// Exporter writes one result to a file and returns the written path.
type Exporter interface {
	Name() string
	Export(result Result) (string, error)
}
