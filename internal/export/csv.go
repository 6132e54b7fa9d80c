package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
)

// csvHeader is the column order shared by the CSV and spreadsheet writers.
var csvHeader = []string{
	"title", "original_title", "release_date", "country", "genre",
	"runtime_min", "imdb_id", "tmdb_id", "imdb_rating", "imdb_votes",
	"tmdb_rating", "tmdb_votes", "metascore", "budget", "gross_worldwide",
	"cast", "other_titles", "description", "sources",
}

// CSVExporter writes the tabular report, one row per movie.
type CSVExporter struct {
	Dir string
}

var _ ports.Exporter = (*CSVExporter)(nil)

func (e *CSVExporter) Name() string {
	return "csv"
}

func (e *CSVExporter) Export(result ports.Result) (string, error) {
	path, err := outputPath(e.Dir, result.Workflow, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range result.Movies {
		if m == nil {
			continue
		}
		if err := w.Write(movieRow(m)); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

// movieRow renders one record in csvHeader column order; absent optional
// fields become empty cells.
func movieRow(m *domain.Movie) []string {
	return []string{
		m.Title,
		m.OriginalTitle,
		formatReleaseDate(m),
		m.Country,
		m.Genre,
		formatInt(m.RuntimeMin),
		m.ImdbID,
		formatInt(m.TmdbID),
		formatFloat(m.ImdbRating),
		formatInt(m.ImdbVotes),
		formatFloat(m.TmdbRating),
		formatInt(m.TmdbVotes),
		formatInt(m.Metascore),
		formatFloat(m.Budget),
		formatFloat(m.GrossWorldwide),
		formatCast(m.Cast),
		formatOtherTitles(m.OtherTitles),
		m.Description,
		formatSources(m),
	}
}
