package omdb

import (
	"strconv"
	"strings"
	"time"

	"MovieScout/internal/domain"
)

// moviePayload mirrors the fields the adapter reads from an OMDb response
// envelope; everything else is opaque.
type moviePayload struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Country    string `json:"Country"`
	Metascore  string `json:"Metascore"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	ImdbID     string `json:"imdbID"`
	BoxOffice  string `json:"BoxOffice"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// normalize translates an OMDb payload into the canonical record. Returns
// nil for payloads too sparse to represent; never fails on well-formed but
// incomplete input. OMDb writes "N/A" for every absent field.
func normalize(p moviePayload) *domain.Movie {
	title := cleanField(p.Title)
	if title == "" {
		return nil
	}

	m := &domain.Movie{
		Title:       title,
		Description: cleanField(p.Plot),
		Country:     cleanField(p.Country),
		Genre:       slashJoin(cleanField(p.Genre)),
		ImdbID:      cleanField(p.ImdbID),
		Cast:        parseActors(cleanField(p.Actors)),
		OtherTitles: []domain.OtherTitle{},
		Source:      sourceName,
	}

	if y, ok := parseYear(cleanField(p.Year)); ok {
		m.ReleaseYear = &y
	}
	if released, err := time.Parse("02 Jan 2006", cleanField(p.Released)); err == nil {
		y, mo, d := released.Year(), int(released.Month()), released.Day()
		m.ReleaseYear, m.ReleaseMonth, m.ReleaseDay = &y, &mo, &d
	}
	if mins, ok := parseRuntime(cleanField(p.Runtime)); ok {
		m.RuntimeMin = &mins
	}
	if rating, err := strconv.ParseFloat(cleanField(p.ImdbRating), 64); err == nil {
		m.ImdbRating = &rating
	}
	if votes, err := strconv.Atoi(strings.ReplaceAll(cleanField(p.ImdbVotes), ",", "")); err == nil {
		m.ImdbVotes = &votes
	}
	if meta, err := strconv.Atoi(cleanField(p.Metascore)); err == nil {
		m.Metascore = &meta
	}
	if gross, ok := parseMoney(cleanField(p.BoxOffice)); ok {
		m.GrossWorldwide = &gross
	}

	return m
}

func cleanField(v string) string {
	v = strings.TrimSpace(v)
	if v == "N/A" {
		return ""
	}
	return v
}

// parseYear handles both "1999" and the "1999–" range form OMDb uses for
// series payloads.
func parseYear(v string) (int, bool) {
	v = strings.TrimRight(v, "–-")
	if len(v) > 4 {
		v = v[:4]
	}
	y, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return y, true
}

func parseRuntime(v string) (int, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(v, "min"))
	mins, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return mins, true
}

func parseMoney(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimPrefix(v, "$"), ",", "")
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// slashJoin rewrites OMDb's comma-joined genre list into the canonical
// slash-joined form.
func slashJoin(genres string) string {
	if genres == "" {
		return ""
	}
	parts := strings.Split(genres, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "/")
}

func parseActors(actors string) []domain.CastMember {
	cast := []domain.CastMember{}
	if actors == "" {
		return cast
	}
	for _, name := range strings.Split(actors, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cast = append(cast, domain.CastMember{Name: name})
	}
	return cast
}
