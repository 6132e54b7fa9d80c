package domain

// CastMember is a single credited actor. Order reflects the source's billing
// position and matters for display only.
type CastMember struct {
	Name  string
	Role  *string
	Order *int
}

// OtherTitle is an alternative release title in a specific country.
type OtherTitle struct {
	Title   string
	Country string
}

// Movie is the canonical record every source adapter normalizes into.
// Pointer fields distinguish "the source did not say" from a zero value;
// a nil pointer is never replaced by a sentinel.
type Movie struct {
	Title         string
	OriginalTitle string

	ReleaseYear  *int
	ReleaseMonth *int
	ReleaseDay   *int

	Country     string
	Description string
	Genre       string
	RuntimeMin  *int

	Cast        []CastMember
	OtherTitles []OtherTitle

	Budget         *float64
	GrossWorldwide *float64

	ImdbID string
	TmdbID *int

	ImdbRating *float64
	ImdbVotes  *int
	TmdbRating *float64
	TmdbVotes  *int
	Metascore  *int

	// Source is the adapter tag on a per-source record; Sources is the
	// ordered provenance list on a merged record.
	Source  string
	Sources []string
}

// Clone returns a copy with its own cast/other-title slices, so callers can
// mutate the result without aliasing the original.
func (m *Movie) Clone() *Movie {
	if m == nil {
		return nil
	}
	out := *m
	out.Cast = append([]CastMember(nil), m.Cast...)
	out.OtherTitles = append([]OtherTitle(nil), m.OtherTitles...)
	out.Sources = append([]string(nil), m.Sources...)
	return &out
}
