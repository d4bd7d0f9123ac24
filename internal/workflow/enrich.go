package workflow

import (
	"context"
	"errors"

	"poparch/internal/library"
	"poparch/internal/services"
)

// ErrSkipped is returned by Enrich when the chooser declines every candidate.
var ErrSkipped = errors.New("no candidate selected")

// Enrich resolves one stored movie, asking choose to pick when TMDB returns
// several plausible matches, and stores the result. It returns the refreshed
// movie.
func Enrich(ctx context.Context, store MovieStore, res MetadataResolver, movie *library.Movie, choose Chooser) (*library.Movie, error) {
	if movie == nil {
		return nil, library.ErrNotFound
	}
	ctx = services.WithMovie(ctx, movie.Label())
	outcome, err := res.Resolve(ctx, movie.Title, movie.Year)
	if err != nil {
		return nil, err
	}

	match := outcome.Match
	if outcome.Ambiguous() {
		if choose == nil {
			return nil, ambiguityError(len(outcome.Candidates))
		}
		picked, ok := choose(ctx, movie, outcome.Candidates)
		if !ok {
			return nil, ErrSkipped
		}
		if match, err = res.Details(ctx, picked.ID); err != nil {
			return nil, err
		}
	}

	if err := store.UpdateEnrichment(ctx, movie.Title, movie.Year, ToLibrary(match)); err != nil {
		return nil, err
	}
	refreshed, err := store.Get(ctx, movie.Title, movie.Year)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, library.ErrNotFound
	}
	return refreshed, nil
}

// IsAmbiguous reports whether err marks a movie that needs a manual choice.
func IsAmbiguous(err error) bool {
	var amb *ambiguousError
	return errors.As(err, &amb)
}
