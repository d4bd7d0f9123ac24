// Package library persists the movie watchlist in SQLite.
//
// A Store owns one database file. Open applies the embedded goose migrations,
// enables WAL mode and retries SQLITE_BUSY failures with bounded backoff so a
// second short-lived command touching the same file waits instead of failing.
// Movies are identified by (title, year) compared case-insensitively; the
// unique index enforces that invariant and Add reports ErrDuplicate instead of
// overwriting an entry.
//
// Lookups that find nothing return (nil, nil); mutations of a missing movie
// return ErrNotFound. Every other failure is tagged with services.ErrStorage.
package library
