// Package tmdb provides the minimal TMDB API client used to enrich watchlist
// entries.
//
// It authenticates requests with an API key and exposes movie search with an
// optional release-year filter plus movie detail retrieval with credits and
// keywords appended in the same round trip. Responses are strongly typed so
// the resolver can rank them. Options allow tests to supply custom HTTP
// clients without modifying production code.
package tmdb
