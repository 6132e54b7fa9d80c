package domain

// Merge combines an ordered sequence of per-source records believed to
// describe the same movie into one enriched record. The first record is the
// base; each later record only fills fields the accumulated record does not
// have yet, so source priority is entirely determined by input order.
//
// Cast entries are appended with name-based dedup, other titles are
// concatenated unconditionally, and Sources collects every input's tag in
// order. Returns nil for an empty (or all-nil) input. Pure function.
func Merge(records []*Movie) *Movie {
	var out *Movie
	var sources []string

	for _, rec := range records {
		if rec == nil {
			continue
		}
		// A merged input contributes its whole provenance list, so
		// re-merging during enrichment never drops earlier tags.
		if len(rec.Sources) > 0 {
			sources = append(sources, rec.Sources...)
		} else if rec.Source != "" {
			sources = append(sources, rec.Source)
		}
		if out == nil {
			out = rec.Clone()
			continue
		}

		fillString(&out.Title, rec.Title)
		fillString(&out.OriginalTitle, rec.OriginalTitle)
		fillInt(&out.ReleaseYear, rec.ReleaseYear)
		fillInt(&out.ReleaseMonth, rec.ReleaseMonth)
		fillInt(&out.ReleaseDay, rec.ReleaseDay)
		fillString(&out.Country, rec.Country)
		fillString(&out.Description, rec.Description)
		fillString(&out.Genre, rec.Genre)
		fillInt(&out.RuntimeMin, rec.RuntimeMin)
		fillFloat(&out.Budget, rec.Budget)
		fillFloat(&out.GrossWorldwide, rec.GrossWorldwide)
		fillString(&out.ImdbID, rec.ImdbID)
		fillInt(&out.TmdbID, rec.TmdbID)
		fillFloat(&out.ImdbRating, rec.ImdbRating)
		fillInt(&out.ImdbVotes, rec.ImdbVotes)
		fillFloat(&out.TmdbRating, rec.TmdbRating)
		fillInt(&out.TmdbVotes, rec.TmdbVotes)
		fillInt(&out.Metascore, rec.Metascore)
		fillString(&out.Source, rec.Source)

		out.Cast = mergeCast(out.Cast, rec.Cast)
		out.OtherTitles = append(out.OtherTitles, rec.OtherTitles...)
	}

	if out == nil {
		return nil
	}
	out.Sources = sources
	return out
}

// mergeCast appends incoming members whose name is not already present.
// Dedup is exact-name only; relative order of survivors is preserved.
func mergeCast(have, incoming []CastMember) []CastMember {
	if len(incoming) == 0 {
		return have
	}
	seen := make(map[string]struct{}, len(have))
	for _, c := range have {
		seen[c.Name] = struct{}{}
	}
	for _, c := range incoming {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		have = append(have, c)
	}
	return have
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

func fillInt(dst **int, src *int) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func fillFloat(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}
