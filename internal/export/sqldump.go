package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"MovieScout/internal/domain"
	"MovieScout/internal/ports"
)

// schemaDDL is the relational shape of the dump: a movies table plus child
// tables for the two array fields.
const schemaDDL = `CREATE TABLE IF NOT EXISTS movies (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    original_title TEXT,
    release_year INTEGER,
    release_month INTEGER,
    release_day INTEGER,
    country TEXT,
    description TEXT,
    genre TEXT,
    runtime_min INTEGER,
    budget DOUBLE PRECISION,
    gross_worldwide DOUBLE PRECISION,
    imdb_id TEXT,
    tmdb_id INTEGER,
    imdb_rating DOUBLE PRECISION,
    imdb_votes INTEGER,
    tmdb_rating DOUBLE PRECISION,
    tmdb_votes INTEGER,
    metascore INTEGER,
    sources TEXT
);

CREATE TABLE IF NOT EXISTS cast_members (
    movie_id INTEGER NOT NULL REFERENCES movies(id),
    name TEXT NOT NULL,
    role TEXT,
    bill_order INTEGER
);

CREATE TABLE IF NOT EXISTS other_titles (
    movie_id INTEGER NOT NULL REFERENCES movies(id),
    title TEXT NOT NULL,
    country TEXT
);

`

// SQLExporter writes a relational-schema dump: DDL plus INSERT statements
// with inlined literals, ready to feed to psql or sqlite3.
type SQLExporter struct {
	Dir string
}

var _ ports.Exporter = (*SQLExporter)(nil)

func (e *SQLExporter) Name() string {
	return "sql"
}

func (e *SQLExporter) Export(result ports.Result) (string, error) {
	path, err := outputPath(e.Dir, result.Workflow, "sql")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- workflow: %s, movies: %d\n\n", result.Workflow, result.Total)
	b.WriteString(schemaDDL)

	id := 0
	for _, m := range result.Movies {
		if m == nil {
			continue
		}
		id++
		if err := writeMovieInserts(&b, id, m); err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write sql dump: %w", err)
	}
	return path, nil
}

func writeMovieInserts(b *strings.Builder, id int, m *domain.Movie) error {
	movieStmt := sq.Insert("movies").
		Columns("id", "title", "original_title",
			"release_year", "release_month", "release_day",
			"country", "description", "genre", "runtime_min",
			"budget", "gross_worldwide", "imdb_id", "tmdb_id",
			"imdb_rating", "imdb_votes", "tmdb_rating", "tmdb_votes",
			"metascore", "sources").
		Values(id, m.Title, nullable(m.OriginalTitle),
			intArg(m.ReleaseYear), intArg(m.ReleaseMonth), intArg(m.ReleaseDay),
			nullable(m.Country), nullable(m.Description), nullable(m.Genre), intArg(m.RuntimeMin),
			floatArg(m.Budget), floatArg(m.GrossWorldwide), nullable(m.ImdbID), intArg(m.TmdbID),
			floatArg(m.ImdbRating), intArg(m.ImdbVotes), floatArg(m.TmdbRating), intArg(m.TmdbVotes),
			intArg(m.Metascore), nullable(formatSources(m)))
	if err := appendStatement(b, movieStmt); err != nil {
		return err
	}

	for _, c := range m.Cast {
		stmt := sq.Insert("cast_members").
			Columns("movie_id", "name", "role", "bill_order").
			Values(id, c.Name, strPtrArg(c.Role), intArg(c.Order))
		if err := appendStatement(b, stmt); err != nil {
			return err
		}
	}
	for _, t := range m.OtherTitles {
		stmt := sq.Insert("other_titles").
			Columns("movie_id", "title", "country").
			Values(id, t.Title, nullable(t.Country))
		if err := appendStatement(b, stmt); err != nil {
			return err
		}
	}

	b.WriteString("\n")
	return nil
}

func appendStatement(b *strings.Builder, stmt sq.InsertBuilder) error {
	raw, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	rendered, err := inlineArgs(raw, args)
	if err != nil {
		return err
	}
	b.WriteString(rendered)
	b.WriteString(";\n")
	return nil
}

// inlineArgs substitutes ? placeholders with quoted literals so the dump is
// directly executable instead of a prepared statement skeleton.
func inlineArgs(raw string, args []interface{}) (string, error) {
	var b strings.Builder
	argIndex := 0
	for _, r := range raw {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		if argIndex >= len(args) {
			return "", fmt.Errorf("placeholder count exceeds %d args", len(args))
		}
		b.WriteString(literal(args[argIndex]))
		argIndex++
	}
	if argIndex != len(args) {
		return "", fmt.Errorf("%d args left unbound", len(args)-argIndex)
	}
	return b.String(), nil
}

func literal(arg interface{}) string {
	switch v := arg.(type) {
	case nil:
		return "NULL"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
	}
}

// nullable maps empty strings to SQL NULL.
func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func intArg(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatArg(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func strPtrArg(v *string) interface{} {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}
