package testsupport

import (
	"context"
	"testing"

	"poparch/internal/config"
	"poparch/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedMovies inserts the given (title, year) pairs.
func SeedMovies(t testing.TB, store *library.Store, movies ...library.TitleYear) {
	t.Helper()

	if _, _, err := store.AddMany(context.Background(), movies); err != nil {
		t.Fatalf("store.AddMany: %v", err)
	}
}
