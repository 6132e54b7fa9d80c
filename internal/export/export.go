// Package export contains the file-format writers consuming the canonical
// movie record list. Exporters are mechanical: no merging, no filtering,
// and every optional field may be absent.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
)

// ForFormats maps configured format names to exporters writing into dir.
func ForFormats(formats []string, dir string) ([]ports.Exporter, error) {
	exporters := make([]ports.Exporter, 0, len(formats))
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "text", "txt":
			exporters = append(exporters, &TextExporter{Dir: dir})
		case "csv":
			exporters = append(exporters, &CSVExporter{Dir: dir})
		case "xlsx", "sheet":
			exporters = append(exporters, &SheetExporter{Dir: dir})
		case "sql":
			exporters = append(exporters, &SQLExporter{Dir: dir})
		default:
			return nil, fmt.Errorf("unknown export format %q", format)
		}
	}
	return exporters, nil
}

// outputPath ensures the directory exists and builds a timestamped name so
// repeated runs never clobber each other.
func outputPath(dir, workflow, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.%s", workflow, time.Now().Format("20060102-150405"), ext)
	return filepath.Join(dir, name), nil
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatReleaseDate renders whatever date parts are known: "2006-01-02",
// "2006-01" or "2006".
func formatReleaseDate(m *domain.Movie) string {
	if m.ReleaseYear == nil {
		return ""
	}
	out := strconv.Itoa(*m.ReleaseYear)
	if m.ReleaseMonth == nil {
		return out
	}
	out += fmt.Sprintf("-%02d", *m.ReleaseMonth)
	if m.ReleaseDay == nil {
		return out
	}
	return out + fmt.Sprintf("-%02d", *m.ReleaseDay)
}

func formatCast(cast []domain.CastMember) string {
	parts := make([]string, 0, len(cast))
	for _, c := range cast {
		if c.Role != nil && *c.Role != "" {
			parts = append(parts, c.Name+" ("+*c.Role+")")
			continue
		}
		parts = append(parts, c.Name)
	}
	return strings.Join(parts, "; ")
}

func formatOtherTitles(titles []domain.OtherTitle) string {
	parts := make([]string, 0, len(titles))
	for _, t := range titles {
		if t.Country != "" {
			parts = append(parts, t.Title+" ["+t.Country+"]")
			continue
		}
		parts = append(parts, t.Title)
	}
	return strings.Join(parts, "; ")
}

func formatSources(m *domain.Movie) string {
	if len(m.Sources) > 0 {
		return strings.Join(m.Sources, ",")
	}
	return m.Source
}
