package domain

import (
	"strings"
	"time"
)

// Filter is the client-side predicate applied to normalized records.
// Omitted dimensions are no-ops; supplied dimensions must all pass.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Country   string
	Genre     string
}

// IsZero reports whether no dimension is set.
func (f Filter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil && f.Country == "" && f.Genre == ""
}

// countryVariants bridges lowercase ISO 3166-1 codes to English and native
// name fragments, so a filter like "pl" still matches "Polska".
var countryVariants = map[string][]string{
	"ar": {"argentina"},
	"at": {"austria", "österreich"},
	"au": {"australia"},
	"be": {"belgium", "belgique"},
	"br": {"brazil", "brasil"},
	"ca": {"canada"},
	"ch": {"switzerland", "schweiz", "suisse"},
	"cn": {"china", "chinese"},
	"cz": {"czech", "czechia", "česko"},
	"de": {"germany", "deutschland", "german"},
	"dk": {"denmark", "danmark", "danish"},
	"es": {"spain", "españa", "spanish"},
	"fi": {"finland", "suomi", "finnish"},
	"fr": {"france", "french"},
	"gb": {"united kingdom", "uk", "britain", "england"},
	"hu": {"hungary", "magyarország"},
	"in": {"india", "indian"},
	"it": {"italy", "italia", "italian"},
	"jp": {"japan", "japanese"},
	"kr": {"south korea", "korea", "korean"},
	"mx": {"mexico", "méxico"},
	"nl": {"netherlands", "nederland", "dutch"},
	"no": {"norway", "norge", "norwegian"},
	"pl": {"poland", "polska", "polish"},
	"pt": {"portugal", "portuguese"},
	"ru": {"russia", "россия", "russian"},
	"se": {"sweden", "sverige", "swedish"},
	"tr": {"turkey", "türkiye", "turkish"},
	"us": {"united states", "usa", "america"},
}

// CountryCode resolves a country filter term to its lowercase ISO 3166-1
// code: an exact name variant wins over a raw two-letter term, so "uk"
// resolves to "gb", not "uk". Unresolvable terms report false.
func CountryCode(term string) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return "", false
	}
	for code, variants := range countryVariants {
		for _, variant := range variants {
			if variant == term {
				return code, true
			}
		}
	}
	if len(term) == 2 {
		return term, true
	}
	return "", false
}

// Matches reports whether the record passes every supplied dimension.
func (f Filter) Matches(m *Movie) bool {
	if m == nil {
		return false
	}
	return f.matchesDate(m) && f.matchesCountry(m) && f.matchesGenre(m)
}

// matchesDate compares the record's release date against the inclusive
// bounds. Policy for sparse dates: a record without a release year fails any
// supplied date filter; a record with a year but no month is compared by
// year alone, so year-only records are never misfiled onto January 1st.
func (f Filter) matchesDate(m *Movie) bool {
	if f.StartDate == nil && f.EndDate == nil {
		return true
	}
	if m.ReleaseYear == nil {
		return false
	}

	if m.ReleaseMonth == nil {
		year := *m.ReleaseYear
		if f.StartDate != nil && year < f.StartDate.Year() {
			return false
		}
		if f.EndDate != nil && year > f.EndDate.Year() {
			return false
		}
		return true
	}

	day := 1
	if m.ReleaseDay != nil {
		day = *m.ReleaseDay
	}
	released := time.Date(*m.ReleaseYear, time.Month(*m.ReleaseMonth), day, 0, 0, 0, 0, time.UTC)
	if f.StartDate != nil && released.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && released.After(*f.EndDate) {
		return false
	}
	return true
}

// matchesCountry does a case-insensitive substring match, falling back to
// the ISO-code variant table when the direct match fails.
func (f Filter) matchesCountry(m *Movie) bool {
	term := strings.ToLower(strings.TrimSpace(f.Country))
	if term == "" {
		return true
	}
	country := strings.ToLower(m.Country)
	if strings.Contains(country, term) {
		return true
	}
	for _, variant := range countryVariants[term] {
		if strings.Contains(country, variant) {
			return true
		}
	}
	return false
}

// matchesGenre requires every comma-separated term to appear in the
// record's genre list, matching the upstream all-of query semantics.
func (f Filter) matchesGenre(m *Movie) bool {
	if strings.TrimSpace(f.Genre) == "" {
		return true
	}
	genres := strings.ToLower(m.Genre)
	for _, term := range strings.Split(f.Genre, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if !strings.Contains(genres, term) {
			return false
		}
	}
	return true
}
