package library

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

const movieColumns = "id, title, year, watched, watched_at, user_rating, tmdb_id, imdb_id, genre, director, writer, cinematographer, cast_members, keywords, collection, plot, tagline, runtime, score, vote_count, popularity, budget, revenue, poster_path, release_date, original_language, enriched_at, added_at, updated_at"

func scanMovie(scanner interface{ Scan(dest ...any) error }) (*Movie, error) {
	var (
		id               int64
		title            string
		year             int
		watched          int64
		watchedAtRaw     sql.NullString
		userRating       sql.NullInt64
		tmdbID           sql.NullInt64
		imdbID           sql.NullString
		genre            sql.NullString
		director         sql.NullString
		writer           sql.NullString
		cinematographer  sql.NullString
		cast             sql.NullString
		keywords         sql.NullString
		collection       sql.NullString
		plot             sql.NullString
		tagline          sql.NullString
		runtime          sql.NullInt64
		score            sql.NullFloat64
		voteCount        sql.NullInt64
		popularity       sql.NullFloat64
		budget           sql.NullInt64
		revenue          sql.NullInt64
		posterPath       sql.NullString
		releaseDate      sql.NullString
		originalLanguage sql.NullString
		enrichedRaw      sql.NullString
		addedRaw         sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&year,
		&watched,
		&watchedAtRaw,
		&userRating,
		&tmdbID,
		&imdbID,
		&genre,
		&director,
		&writer,
		&cinematographer,
		&cast,
		&keywords,
		&collection,
		&plot,
		&tagline,
		&runtime,
		&score,
		&voteCount,
		&popularity,
		&budget,
		&revenue,
		&posterPath,
		&releaseDate,
		&originalLanguage,
		&enrichedRaw,
		&addedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	movie := &Movie{
		ID:         id,
		Title:      title,
		Year:       year,
		Watched:    watched != 0,
		UserRating: int(userRating.Int64),
		Enrichment: Enrichment{
			TMDBID:           tmdbID.Int64,
			IMDBID:           imdbID.String,
			Genre:            genre.String,
			Director:         director.String,
			Writer:           writer.String,
			Cinematographer:  cinematographer.String,
			Cast:             cast.String,
			Keywords:         keywords.String,
			Collection:       collection.String,
			Plot:             plot.String,
			Tagline:          tagline.String,
			Runtime:          int(runtime.Int64),
			Score:            score.Float64,
			VoteCount:        voteCount.Int64,
			Popularity:       popularity.Float64,
			Budget:           budget.Int64,
			Revenue:          revenue.Int64,
			PosterPath:       posterPath.String,
			ReleaseDate:      releaseDate.String,
			OriginalLanguage: originalLanguage.String,
		},
	}
	if added, err := parseTimeString(addedRaw.String); err == nil {
		movie.AddedAt = added
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		movie.UpdatedAt = updated
	}
	if watchedAtRaw.Valid {
		if ts, err := parseTimeString(watchedAtRaw.String); err == nil {
			movie.WatchedAt = &ts
		}
	}
	if enrichedRaw.Valid {
		if ts, err := parseTimeString(enrichedRaw.String); err == nil {
			movie.EnrichedAt = &ts
		}
	}
	return movie, nil
}

func collectMovies(rows *sql.Rows) ([]*Movie, error) {
	defer rows.Close()
	var movies []*Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(value)) + "%"
}

// splitList splits a comma-joined enrichment field into trimmed values.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
