package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/unidoc/unioffice/common/license"

	"MovieScout/internal/app"
	"MovieScout/internal/config"
	"MovieScout/internal/domain"
	"MovieScout/internal/logging"
	"MovieScout/internal/ports"
)

var (
	warnLine  = color.New(color.FgYellow)
	fatalLine = color.New(color.FgRed, color.Bold)
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("moviescout", flag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML config (overrides MOVIESCOUT_CONFIG)")
	titlesArg := flags.String("titles", "", "comma-separated movie titles to fetch")
	discover := flags.Bool("discover", false, "run filtered discovery instead of title fetch")
	enrich := flags.Bool("enrich", false, "enrich fetched records from the remaining sources")
	startDate := flags.String("start-date", "", "inclusive release date lower bound (YYYY-MM-DD)")
	endDate := flags.String("end-date", "", "inclusive release date upper bound (YYYY-MM-DD)")
	country := flags.String("country", "", "country filter (name fragment or ISO code)")
	genre := flags.String("genre", "", "genre filter (comma-separated names for discovery)")
	maxPages := flags.Int("max-pages", 0, "discovery page limit (0 = configured default)")
	outDir := flags.String("out", "", "output directory (overrides config)")
	formats := flags.String("formats", "", "comma-separated export formats: text,csv,xlsx,sql")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	// unioffice refuses to save workbooks without a metered key, so the
	// xlsx format needs UNIDOC_LICENSE_API_KEY set.
	if key := os.Getenv("UNIDOC_LICENSE_API_KEY"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			warnLine.Fprintf(os.Stderr, "unidoc license: %v\n", err)
		}
	}

	cfg := config.Load(*configPath)
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *formats != "" {
		cfg.Output.Formats = splitList(*formats)
	}

	logger := logging.New(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		fatalLine.Fprintln(os.Stderr, err.Error())
		return 1
	}

	filter, err := buildFilter(*startDate, *endDate, *country, *genre)
	if err != nil {
		fatalLine.Fprintln(os.Stderr, err.Error())
		return 1
	}

	titles := splitList(*titlesArg)
	if !*discover && len(titles) == 0 {
		fatalLine.Fprintln(os.Stderr, "nothing to do: pass -titles or -discover")
		return 1
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		fatalLine.Fprintln(os.Stderr, err.Error())
		return 1
	}

	ctx := context.Background()

	var workflow string
	var movies []*domain.Movie
	if *discover {
		workflow = "discover"
		movies, err = application.Discover(ctx, filter, *maxPages, printProgress)
	} else {
		workflow = "titles"
		movies, err = application.FetchByTitles(ctx, titles, filter)
	}
	if err != nil {
		warnLine.Fprintf(os.Stderr, "workflow interrupted: %v\n", err)
	}

	if *enrich && len(movies) > 0 {
		enriched, enrichErr := application.EnrichAll(ctx, movies)
		if enrichErr != nil {
			warnLine.Fprintf(os.Stderr, "enrichment interrupted: %v\n", enrichErr)
		}
		if len(enriched) > 0 {
			movies = enriched
		}
	}

	paths, err := application.Export(workflow, movies)
	if err != nil {
		fatalLine.Fprintln(os.Stderr, err.Error())
		return 1
	}

	printSummary(movies)
	for _, path := range paths {
		fmt.Println("wrote", path)
	}
	return 0
}

func printProgress(p ports.Progress) {
	if p.TotalPages > 0 {
		fmt.Printf("page %d/%d: %d collected (of %d available)\n",
			p.Page, p.TotalPages, p.CurrentResults, p.TotalResults)
		return
	}
	fmt.Printf("page %d: %d collected\n", p.Page, p.CurrentResults)
}

func buildFilter(start, end, country, genre string) (domain.Filter, error) {
	filter := domain.Filter{Country: country, Genre: genre}

	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid -start-date %q: %w", start, err)
		}
		filter.StartDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid -end-date %q: %w", end, err)
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
