package tmdb

import (
	"strings"
	"time"

	"MovieScout/internal/domain"
)

type errorEnvelope struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

type searchResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []searchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type discoverResponse = searchResponse

type findResponse struct {
	MovieResults []searchResult `json:"movie_results"`
}

type genreListResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type detailsPayload struct {
	ID            int     `json:"id"`
	ImdbID        string  `json:"imdb_id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Runtime       int     `json:"runtime"`
	Budget        float64 `json:"budget"`
	Revenue       float64 `json:"revenue"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	Credits struct {
		Cast []struct {
			Name      string `json:"name"`
			Character string `json:"character"`
			Order     int    `json:"order"`
		} `json:"cast"`
	} `json:"credits"`
	AlternativeTitles struct {
		Titles []struct {
			Country string `json:"iso_3166_1"`
			Title   string `json:"title"`
		} `json:"titles"`
	} `json:"alternative_titles"`
}

// normalizeDetails translates a full TMDB payload into the canonical record.
// Returns nil for payloads too sparse to represent. TMDB reports zero for
// unknown numeric fields; zero therefore maps to nil, not 0.
func normalizeDetails(p detailsPayload) *domain.Movie {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil
	}

	m := &domain.Movie{
		Title:         title,
		OriginalTitle: strings.TrimSpace(p.OriginalTitle),
		Description:   strings.TrimSpace(p.Overview),
		ImdbID:        strings.TrimSpace(p.ImdbID),
		Cast:          []domain.CastMember{},
		OtherTitles:   []domain.OtherTitle{},
		Source:        sourceName,
	}

	id := p.ID
	m.TmdbID = &id

	setReleaseDate(m, p.ReleaseDate)

	if p.Runtime > 0 {
		runtime := p.Runtime
		m.RuntimeMin = &runtime
	}
	if p.Budget > 0 {
		budget := p.Budget
		m.Budget = &budget
	}
	if p.Revenue > 0 {
		revenue := p.Revenue
		m.GrossWorldwide = &revenue
	}
	if p.VoteAverage > 0 {
		rating := p.VoteAverage
		m.TmdbRating = &rating
	}
	if p.VoteCount > 0 {
		votes := p.VoteCount
		m.TmdbVotes = &votes
	}

	genres := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			genres = append(genres, name)
		}
	}
	m.Genre = strings.Join(genres, "/")

	countries := make([]string, 0, len(p.ProductionCountries))
	for _, c := range p.ProductionCountries {
		if name := strings.TrimSpace(c.Name); name != "" {
			countries = append(countries, name)
		}
	}
	m.Country = strings.Join(countries, ", ")

	for _, c := range p.Credits.Cast {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		member := domain.CastMember{Name: name}
		if role := strings.TrimSpace(c.Character); role != "" {
			member.Role = &role
		}
		order := c.Order
		member.Order = &order
		m.Cast = append(m.Cast, member)
	}

	for _, t := range p.AlternativeTitles.Titles {
		if title := strings.TrimSpace(t.Title); title != "" {
			m.OtherTitles = append(m.OtherTitles, domain.OtherTitle{Title: title, Country: t.Country})
		}
	}

	return m
}

// normalizeSearchResult builds a shallow record from one discovery/search
// entry, enough for the orchestrator to fetch full details by native id.
func normalizeSearchResult(r searchResult) *domain.Movie {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil
	}

	m := &domain.Movie{
		Title:       title,
		Cast:        []domain.CastMember{},
		OtherTitles: []domain.OtherTitle{},
		Source:      sourceName,
	}
	id := r.ID
	m.TmdbID = &id

	setReleaseDate(m, r.ReleaseDate)

	if r.VoteAverage > 0 {
		rating := r.VoteAverage
		m.TmdbRating = &rating
	}
	if r.VoteCount > 0 {
		votes := r.VoteCount
		m.TmdbVotes = &votes
	}
	return m
}

func setReleaseDate(m *domain.Movie, date string) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return
	}
	y, mo, d := parsed.Year(), int(parsed.Month()), parsed.Day()
	m.ReleaseYear, m.ReleaseMonth, m.ReleaseDay = &y, &mo, &d
}
