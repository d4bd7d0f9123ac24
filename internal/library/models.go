package library

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrDuplicate is returned when (title, year) already exists.
	ErrDuplicate = errors.New("movie already in library")
	// ErrNotFound is returned when a mutation targets a missing movie.
	ErrNotFound = errors.New("movie not found in library")
)

// Movie is one watchlist entry.
type Movie struct {
	ID         int64
	Title      string
	Year       int
	Watched    bool
	WatchedAt  *time.Time
	UserRating int
	Enrichment
	EnrichedAt *time.Time
	AddedAt    time.Time
	UpdatedAt  time.Time
}

// Label renders the canonical "Title (YYYY)" form.
func (m Movie) Label() string {
	return m.Title + " (" + strconv.Itoa(m.Year) + ")"
}

// Enriched reports whether TMDB metadata has been stored for the movie.
func (m Movie) Enriched() bool {
	return m.EnrichedAt != nil
}

// Enrichment holds the optional TMDB metadata columns.
type Enrichment struct {
	TMDBID           int64
	IMDBID           string
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
}

// Filter narrows Search results. Zero values are ignored.
type Filter struct {
	Query     string
	Year      int
	Decade    int
	Genre     string
	Director  string
	Watched   *bool
	MinRating int
	MinScore  float64
	Limit     int
}

// TitleYear identifies a movie for bulk inserts.
type TitleYear struct {
	Title string
	Year  int
}

// NameCount pairs a label with how many movies carry it.
type NameCount struct {
	Name  string
	Count int
}

// DecadeCount is one bucket of the decade histogram.
type DecadeCount struct {
	Decade int
	Count  int
}

// Stats aggregates the whole library.
type Stats struct {
	Total         int
	Watched       int
	Enriched      int
	Rated         int
	AverageRating float64
	AverageScore  float64
	TotalRuntime  int
	WatchedTime   int
	Genres        []NameCount
	Directors     []NameCount
	Decades       []DecadeCount
	Ratings       map[int]int
}

// Unwatched returns the number of movies not yet watched.
func (s Stats) Unwatched() int {
	return s.Total - s.Watched
}
