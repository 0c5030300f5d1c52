package testsupport

import (
	"context"
	"testing"
	"time"

	"cinefill/internal/catalog"
	"cinefill/internal/config"
	"cinefill/internal/genre"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertMovie stores movie and returns it with its assigned ID.
func InsertMovie(t testing.TB, store *catalog.Store, movie catalog.Movie) *catalog.Movie {
	t.Helper()

	if err := store.Insert(context.Background(), &movie); err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return &movie
}

// MustGet reloads a record and fails the test when it is missing.
func MustGet(t testing.TB, store *catalog.Store, id int64) *catalog.Movie {
	t.Helper()

	movie, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if movie == nil {
		t.Fatalf("movie %d not found", id)
	}
	return movie
}

// SeedGenres replaces the genre rows of a record.
func SeedGenres(t testing.TB, store *catalog.Store, movieID int64, genres ...genre.Genre) {
	t.Helper()

	if err := store.ReplaceGenres(context.Background(), movieID, genres); err != nil {
		t.Fatalf("store.ReplaceGenres: %v", err)
	}
}

// Date returns a pointer to midnight UTC on the given day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
