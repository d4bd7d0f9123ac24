package resolver

import (
	"strings"
	"time"

	"poparch/internal/tmdb"
)

const castLimit = 7

// Enrichment is the metadata attached to a watchlist entry after a
// successful lookup. List-valued fields are comma-joined.
type Enrichment struct {
	TMDBID           int64
	IMDBID           string
	Title            string
	Year             int
	Genre            string
	Director         string
	Writer           string
	Cinematographer  string
	Cast             string
	Keywords         string
	Collection       string
	Plot             string
	Tagline          string
	Runtime          int
	Score            float64
	VoteCount        int64
	Popularity       float64
	Budget           int64
	Revenue          int64
	PosterPath       string
	ReleaseDate      string
	OriginalLanguage string
	FetchedAt        time.Time
}

func buildEnrichment(details *tmdb.MovieDetails) Enrichment {
	genres := make([]string, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genres = appendUnique(genres, genre.Name)
	}

	var directors, writers, cinematographers []string
	for _, member := range details.Credits.Crew {
		switch member.Job {
		case "Director":
			directors = appendUnique(directors, member.Name)
		case "Screenplay", "Writer":
			writers = appendUnique(writers, member.Name)
		case "Director of Photography":
			cinematographers = appendUnique(cinematographers, member.Name)
		}
	}

	cast := make([]string, 0, castLimit)
	for _, member := range details.Credits.Cast {
		if len(cast) == castLimit {
			break
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			cast = append(cast, name)
		}
	}

	keywords := make([]string, 0, len(details.Keywords.Keywords))
	for _, keyword := range details.Keywords.Keywords {
		keywords = appendUnique(keywords, keyword.Name)
	}

	enrichment := Enrichment{
		TMDBID:           details.ID,
		IMDBID:           strings.TrimSpace(details.IMDBID),
		Title:            strings.TrimSpace(details.Title),
		Year:             details.Year(),
		Genre:            strings.Join(genres, ", "),
		Director:         strings.Join(directors, ", "),
		Writer:           strings.Join(writers, ", "),
		Cinematographer:  strings.Join(cinematographers, ", "),
		Cast:             strings.Join(cast, ", "),
		Keywords:         strings.Join(keywords, ", "),
		Plot:             strings.TrimSpace(details.Overview),
		Tagline:          strings.TrimSpace(details.Tagline),
		Runtime:          details.Runtime,
		Score:            details.VoteAverage,
		VoteCount:        details.VoteCount,
		Popularity:       details.Popularity,
		Budget:           details.Budget,
		Revenue:          details.Revenue,
		PosterPath:       strings.TrimSpace(details.PosterPath),
		ReleaseDate:      strings.TrimSpace(details.ReleaseDate),
		OriginalLanguage: strings.TrimSpace(details.OriginalLanguage),
		FetchedAt:        time.Now().UTC(),
	}
	if details.Collection != nil {
		enrichment.Collection = strings.TrimSpace(details.Collection.Name)
	}
	return enrichment
}

func appendUnique(values []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
