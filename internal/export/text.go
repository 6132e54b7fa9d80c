package export

import (
	"fmt"
	"os"
	"strings"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
)

// TextExporter writes a human-readable structured-text report, one block
// per movie.
type TextExporter struct {
	Dir string
}

var _ ports.Exporter = (*TextExporter)(nil)

func (e *TextExporter) Name() string {
	return "text"
}

func (e *TextExporter) Export(result ports.Result) (string, error) {
	path, err := outputPath(e.Dir, result.Workflow, "txt")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workflow: %s\nMovies: %d\n\n", result.Workflow, result.Total)
	for i, m := range result.Movies {
		if m == nil {
			continue
		}
		writeMovieBlock(&b, i+1, m)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write text report: %w", err)
	}
	return path, nil
}

func writeMovieBlock(b *strings.Builder, index int, m *domain.Movie) {
	fmt.Fprintf(b, "#%d %s\n", index, m.Title)
	writeLine(b, "Original title", m.OriginalTitle)
	writeLine(b, "Released", formatReleaseDate(m))
	writeLine(b, "Country", m.Country)
	writeLine(b, "Genre", m.Genre)
	writeLine(b, "Runtime (min)", formatInt(m.RuntimeMin))
	writeLine(b, "IMDb id", m.ImdbID)
	writeLine(b, "TMDB id", formatInt(m.TmdbID))
	writeLine(b, "IMDb rating", formatFloat(m.ImdbRating))
	writeLine(b, "IMDb votes", formatInt(m.ImdbVotes))
	writeLine(b, "TMDB rating", formatFloat(m.TmdbRating))
	writeLine(b, "TMDB votes", formatInt(m.TmdbVotes))
	writeLine(b, "Metascore", formatInt(m.Metascore))
	writeLine(b, "Budget", formatFloat(m.Budget))
	writeLine(b, "Worldwide gross", formatFloat(m.GrossWorldwide))
	writeLine(b, "Cast", formatCast(m.Cast))
	writeLine(b, "Other titles", formatOtherTitles(m.OtherTitles))
	writeLine(b, "Description", m.Description)
	writeLine(b, "Sources", formatSources(m))
	b.WriteString("\n")
}

// writeLine skips absent fields entirely rather than printing placeholders.
func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}
