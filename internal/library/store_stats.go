package library

import (
	"context"
	"database/sql"
)

const topDirectorLimit = 10

// Stats aggregates counts, averages and histograms across the library.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var (
		stats       Stats
		avgRating   sql.NullFloat64
		avgScore    sql.NullFloat64
		runtime     sql.NullInt64
		watchedTime sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `SELECT
            COUNT(1),
            COALESCE(SUM(watched), 0),
            COUNT(enriched_at),
            COUNT(user_rating),
            AVG(user_rating),
            AVG(score),
            SUM(runtime),
            SUM(CASE WHEN watched = 1 THEN runtime END)
        FROM movies`).Scan(
		&stats.Total,
		&stats.Watched,
		&stats.Enriched,
		&stats.Rated,
		&avgRating,
		&avgScore,
		&runtime,
		&watchedTime,
	)
	if err != nil {
		return Stats{}, storageError("stats", err)
	}
	stats.AverageRating = avgRating.Float64
	stats.AverageScore = avgScore.Float64
	stats.TotalRuntime = int(runtime.Int64)
	stats.WatchedTime = int(watchedTime.Int64)

	if stats.Genres, err = s.Genres(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Directors, err = s.directorCounts(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Decades, err = s.decadeHistogram(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Ratings, err = s.ratingHistogram(ctx); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Store) directorCounts(ctx context.Context) ([]NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT director FROM movies WHERE director IS NOT NULL AND director != ''`)
	if err != nil {
		return nil, storageError("stats directors", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var director string
		if err := rows.Scan(&director); err != nil {
			return nil, storageError("stats directors", err)
		}
		for _, name := range splitList(director) {
			counts[name]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("stats directors", err)
	}
	return sortedCounts(counts, topDirectorLimit), nil
}

func (s *Store) decadeHistogram(ctx context.Context) ([]DecadeCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT (year / 10) * 10 AS decade, COUNT(1) FROM movies GROUP BY decade ORDER BY decade`)
	if err != nil {
		return nil, storageError("stats decades", err)
	}
	defer rows.Close()

	var decades []DecadeCount
	for rows.Next() {
		var bucket DecadeCount
		if err := rows.Scan(&bucket.Decade, &bucket.Count); err != nil {
			return nil, storageError("stats decades", err)
		}
		decades = append(decades, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("stats decades", err)
	}
	return decades, nil
}

func (s *Store) ratingHistogram(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_rating, COUNT(1) FROM movies WHERE user_rating IS NOT NULL GROUP BY user_rating`)
	if err != nil {
		return nil, storageError("stats ratings", err)
	}
	defer rows.Close()

	ratings := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, storageError("stats ratings", err)
		}
		ratings[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("stats ratings", err)
	}
	return ratings, nil
}
