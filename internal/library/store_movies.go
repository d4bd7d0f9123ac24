package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"poparch/internal/services"
	"poparch/internal/titleparse"
)

const identityClause = ` WHERE title = ? COLLATE NOCASE AND year = ?`

func validateIdentity(title string, year int) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", services.Wrap(services.ErrValidation, "library", "validate", "title must not be empty", nil)
	}
	if !titleparse.ValidYear(year) {
		return "", services.Wrap(services.ErrValidation, "library", "validate", fmt.Sprintf("year %d outside supported range", year), nil)
	}
	return title, nil
}

// Add inserts a new unwatched movie. Adding an existing (title, year) pair
// returns ErrDuplicate and leaves the stored entry untouched.
func (s *Store) Add(ctx context.Context, title string, year int) error {
	title, err := validateIdentity(title, year)
	if err != nil {
		return err
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO movies (title, year, watched, added_at, updated_at)
         VALUES (?, ?, 0, ?, ?)
         ON CONFLICT DO NOTHING`,
		title,
		year,
		now,
		now,
	)
	if err != nil {
		return storageError("add", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError("add", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

// AddMany inserts entries in a single transaction and reports which were
// added and which already existed.
func (s *Store) AddMany(ctx context.Context, entries []TitleYear) (added, duplicates []TitleYear, err error) {
	ctx = ensureContext(ctx)
	normalized := make([]TitleYear, 0, len(entries))
	for _, entry := range entries {
		title, verr := validateIdentity(entry.Title, entry.Year)
		if verr != nil {
			return nil, nil, verr
		}
		normalized = append(normalized, TitleYear{Title: title, Year: entry.Year})
	}

	err = retryOnBusy(ctx, func() error {
		added, duplicates = added[:0], duplicates[:0]
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer func() { _ = tx.Rollback() }()

		stmt, txErr := tx.PrepareContext(ctx, `INSERT INTO movies (title, year, watched, added_at, updated_at)
         VALUES (?, ?, 0, ?, ?)
         ON CONFLICT DO NOTHING`)
		if txErr != nil {
			return txErr
		}
		defer stmt.Close()

		now := timestamp(time.Now())
		for _, entry := range normalized {
			res, execErr := stmt.ExecContext(ctx, entry.Title, entry.Year, now, now)
			if execErr != nil {
				return execErr
			}
			affected, execErr := res.RowsAffected()
			if execErr != nil {
				return execErr
			}
			if affected == 0 {
				duplicates = append(duplicates, entry)
			} else {
				added = append(added, entry)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, nil, storageError("add many", err)
	}
	return added, duplicates, nil
}

// Get returns the movie matching (title, year) case-insensitively, or nil.
func (s *Store) Get(ctx context.Context, title string, year int) (*Movie, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+movieColumns+` FROM movies`+identityClause, strings.TrimSpace(title), year)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get", err)
	}
	return movie, nil
}

// GetByID fetches a movie by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Movie, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get by id", err)
	}
	return movie, nil
}

// FindByTitle returns movies whose title contains substring, ignoring case.
func (s *Store) FindByTitle(ctx context.Context, substring string) ([]*Movie, error) {
	return s.Search(ctx, Filter{Query: substring})
}

// List returns every movie ordered by title.
func (s *Store) List(ctx context.Context) ([]*Movie, error) {
	return s.Search(ctx, Filter{})
}

// ByYear returns movies released in year.
func (s *Store) ByYear(ctx context.Context, year int) ([]*Movie, error) {
	return s.Search(ctx, Filter{Year: year})
}

// ByDecade returns movies released in [decade, decade+9].
func (s *Store) ByDecade(ctx context.Context, decade int) ([]*Movie, error) {
	return s.Search(ctx, Filter{Decade: decade})
}

// Search returns movies matching every non-zero field of filter.
func (s *Store) Search(ctx context.Context, filter Filter) ([]*Movie, error) {
	var (
		clauses []string
		args    []any
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, `title LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(q))
	}
	if filter.Year > 0 {
		clauses = append(clauses, `year = ?`)
		args = append(args, filter.Year)
	}
	if filter.Decade > 0 {
		clauses = append(clauses, `year BETWEEN ? AND ?`)
		args = append(args, filter.Decade, filter.Decade+9)
	}
	if g := strings.TrimSpace(filter.Genre); g != "" {
		clauses = append(clauses, `genre LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(g))
	}
	if d := strings.TrimSpace(filter.Director); d != "" {
		clauses = append(clauses, `director LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(d))
	}
	if filter.Watched != nil {
		clauses = append(clauses, `watched = ?`)
		args = append(args, boolToInt(*filter.Watched))
	}
	if filter.MinRating > 0 {
		clauses = append(clauses, `user_rating >= ?`)
		args = append(args, filter.MinRating)
	}
	if filter.MinScore > 0 {
		clauses = append(clauses, `score >= ?`)
		args = append(args, filter.MinScore)
	}

	query := `SELECT ` + movieColumns + ` FROM movies`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY title COLLATE NOCASE, year`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, storageError("search", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, storageError("search", err)
	}
	return movies, nil
}

// Random returns one randomly chosen movie, or nil when none qualify.
func (s *Store) Random(ctx context.Context, unwatchedOnly bool) (*Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	if unwatchedOnly {
		query += ` WHERE watched = 0`
	}
	query += ` ORDER BY RANDOM() LIMIT 1`
	movie, err := scanMovie(s.db.QueryRowContext(ensureContext(ctx), query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("random", err)
	}
	return movie, nil
}

// MissingEnrichment returns movies that have never been enriched.
func (s *Store) MissingEnrichment(ctx context.Context) ([]*Movie, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+movieColumns+` FROM movies WHERE enriched_at IS NULL ORDER BY title COLLATE NOCASE, year`,
	)
	if err != nil {
		return nil, storageError("missing enrichment", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, storageError("missing enrichment", err)
	}
	return movies, nil
}

// Genres returns each distinct genre with its movie count, most common first.
func (s *Store) Genres(ctx context.Context) ([]NameCount, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT genre FROM movies WHERE genre IS NOT NULL AND genre != ''`)
	if err != nil {
		return nil, storageError("genres", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, storageError("genres", err)
		}
		for _, name := range splitList(genre) {
			counts[name]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("genres", err)
	}
	return sortedCounts(counts, 0), nil
}

// UpdateEnrichment stores TMDB metadata for (title, year).
func (s *Store) UpdateEnrichment(ctx context.Context, title string, year int, fields Enrichment) error {
	now := timestamp(time.Now())
	res, err := s.execWithRetry(
		ctx,
		`UPDATE movies
         SET tmdb_id = ?, imdb_id = ?, genre = ?, director = ?, writer = ?, cinematographer = ?,
             cast_members = ?, keywords = ?, collection = ?, plot = ?, tagline = ?, runtime = ?,
             score = ?, vote_count = ?, popularity = ?, budget = ?, revenue = ?, poster_path = ?,
             release_date = ?, original_language = ?, enriched_at = ?, updated_at = ?`+identityClause,
		nullableInt(fields.TMDBID),
		nullableString(fields.IMDBID),
		nullableString(fields.Genre),
		nullableString(fields.Director),
		nullableString(fields.Writer),
		nullableString(fields.Cinematographer),
		nullableString(fields.Cast),
		nullableString(fields.Keywords),
		nullableString(fields.Collection),
		nullableString(fields.Plot),
		nullableString(fields.Tagline),
		nullableInt(int64(fields.Runtime)),
		nullableFloat(fields.Score),
		nullableInt(fields.VoteCount),
		nullableFloat(fields.Popularity),
		nullableInt(fields.Budget),
		nullableInt(fields.Revenue),
		nullableString(fields.PosterPath),
		nullableString(fields.ReleaseDate),
		nullableString(fields.OriginalLanguage),
		now,
		now,
		strings.TrimSpace(title),
		year,
	)
	return affectedOrNotFound("update enrichment", res, err)
}

// SetWatched flags a movie as watched or unwatched.
func (s *Store) SetWatched(ctx context.Context, title string, year int, watched bool) error {
	now := time.Now()
	var watchedAt any
	if watched {
		watchedAt = timestamp(now)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE movies SET watched = ?, watched_at = ?, updated_at = ?`+identityClause,
		boolToInt(watched),
		watchedAt,
		timestamp(now),
		strings.TrimSpace(title),
		year,
	)
	return affectedOrNotFound("set watched", res, err)
}

// SetRating stores a 1..10 user rating; 0 clears it.
func (s *Store) SetRating(ctx context.Context, title string, year int, rating int) error {
	if rating < 0 || rating > 10 {
		return services.Wrap(services.ErrValidation, "library", "set rating", fmt.Sprintf("rating %d must be between 1 and 10", rating), nil)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE movies SET user_rating = ?, updated_at = ?`+identityClause,
		nullableInt(int64(rating)),
		timestamp(time.Now()),
		strings.TrimSpace(title),
		year,
	)
	return affectedOrNotFound("set rating", res, err)
}

// Delete removes (title, year).
func (s *Store) Delete(ctx context.Context, title string, year int) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM movies`+identityClause, strings.TrimSpace(title), year)
	return affectedOrNotFound("delete", res, err)
}

// Clear removes every movie and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, storageError("clear", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("clear", err)
	}
	return removed, nil
}

// Count returns the number of stored movies.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM movies`).Scan(&count); err != nil {
		return 0, storageError("count", err)
	}
	return count, nil
}

func affectedOrNotFound(operation string, res sql.Result, err error) error {
	if err != nil {
		return storageError(operation, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError(operation, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func sortedCounts(counts map[string]int, limit int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
