package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"MovieScout/internal/domain"
)

// printSummary renders a compact result table on stdout once a workflow
// finishes. File exporters carry the full record; this is a glance view.
func printSummary(movies []*domain.Movie) {
	fmt.Printf("collected %d movie(s)\n", len(movies))
	if len(movies) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	if err := table.Append([]string{"Title", "Year", "Country", "Genre", "IMDb", "Sources"}); err != nil {
		warnLine.Fprintf(os.Stderr, "summary table: %v\n", err)
		return
	}
	for _, m := range movies {
		if m == nil {
			continue
		}
		year := ""
		if m.ReleaseYear != nil {
			year = fmt.Sprintf("%d", *m.ReleaseYear)
		}
		rating := ""
		if m.ImdbRating != nil {
			rating = fmt.Sprintf("%.1f", *m.ImdbRating)
		}
		sources := m.Source
		if len(m.Sources) > 0 {
			sources = fmt.Sprintf("%v", m.Sources)
		}
		if err := table.Append([]string{m.Title, year, m.Country, m.Genre, rating, sources}); err != nil {
			warnLine.Fprintf(os.Stderr, "summary table: %v\n", err)
			return
		}
	}
	if err := table.Render(); err != nil {
		warnLine.Fprintf(os.Stderr, "summary table: %v\n", err)
	}
}
