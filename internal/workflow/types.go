package workflow

import (
	"context"

	"poparch/internal/library"
	"poparch/internal/resolver"
)

// MovieStore is the library surface the batch loops need.
type MovieStore interface {
	List(ctx context.Context) ([]*library.Movie, error)
	MissingEnrichment(ctx context.Context) ([]*library.Movie, error)
	Get(ctx context.Context, title string, year int) (*library.Movie, error)
	AddMany(ctx context.Context, entries []library.TitleYear) (added, duplicates []library.TitleYear, err error)
	UpdateEnrichment(ctx context.Context, title string, year int, fields library.Enrichment) error
	SetWatched(ctx context.Context, title string, year int, watched bool) error
	SetRating(ctx context.Context, title string, year int, rating int) error
}

// MetadataResolver is the resolver surface the batch loops need.
type MetadataResolver interface {
	Configured() bool
	Resolve(ctx context.Context, title string, year int) (resolver.Outcome, error)
	Details(ctx context.Context, tmdbID int64) (*resolver.Enrichment, error)
}

var (
	_ MovieStore       = (*library.Store)(nil)
	_ MetadataResolver = (*resolver.Resolver)(nil)
)

// Chooser picks one of several candidates. Returning false skips the movie.
type Chooser func(ctx context.Context, movie *library.Movie, candidates []resolver.Candidate) (resolver.Candidate, bool)
