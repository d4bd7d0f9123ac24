// Package resolver maps a movie title and optional release year onto TMDB
// metadata.
//
// Resolve searches TMDB, ranks candidates (exact title first, then matching
// year, then popularity) and either returns a single enrichment record or a
// short list of plausible candidates for the caller to disambiguate. It never
// prints or touches storage; callers decide how to present ambiguity and where
// to persist results. Failures are returned as *Error values carrying a Kind
// so batch callers can summarize them without string matching.
package resolver
