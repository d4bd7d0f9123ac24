package workflow

import (
	"poparch/internal/library"
	"poparch/internal/resolver"
)

// ToLibrary converts a resolver enrichment into the stored column set.
func ToLibrary(e *resolver.Enrichment) library.Enrichment {
	if e == nil {
		return library.Enrichment{}
	}
	return library.Enrichment{
		TMDBID:           e.TMDBID,
		IMDBID:           e.IMDBID,
		Genre:            e.Genre,
		Director:         e.Director,
		Writer:           e.Writer,
		Cinematographer:  e.Cinematographer,
		Cast:             e.Cast,
		Keywords:         e.Keywords,
		Collection:       e.Collection,
		Plot:             e.Plot,
		Tagline:          e.Tagline,
		Runtime:          e.Runtime,
		Score:            e.Score,
		VoteCount:        e.VoteCount,
		Popularity:       e.Popularity,
		Budget:           e.Budget,
		Revenue:          e.Revenue,
		PosterPath:       e.PosterPath,
		ReleaseDate:      e.ReleaseDate,
		OriginalLanguage: e.OriginalLanguage,
	}
}
