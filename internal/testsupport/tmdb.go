package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"poparch/internal/tmdb"
)

// FakeTMDB is an in-process stand-in for the TMDB search and details
// endpoints. Searches match titles by case-insensitive substring.
type FakeTMDB struct {
	Server *httptest.Server
	// APIKey, when set, makes requests with a different key fail with 401.
	APIKey string

	mu       sync.Mutex
	movies   []tmdb.MovieDetails
	delays   map[int64]time.Duration
	searches int
	details  int
}

// NewFakeTMDB starts a fake server seeded with movies and registers cleanup.
func NewFakeTMDB(t testing.TB, movies ...tmdb.MovieDetails) *FakeTMDB {
	t.Helper()

	fake := &FakeTMDB{movies: movies, delays: make(map[int64]time.Duration)}
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", fake.handleSearch)
	mux.HandleFunc("/movie/", fake.handleDetails)
	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Server.Close)
	return fake
}

// URL returns the base URL to configure on the client.
func (f *FakeTMDB) URL() string {
	return f.Server.URL
}

// Delay makes the details request for id sleep before answering.
func (f *FakeTMDB) Delay(id int64, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[id] = d
}

// Calls reports how many search and details requests were served.
func (f *FakeTMDB) Calls() (searches, details int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches, f.details
}

func (f *FakeTMDB) authorized(w http.ResponseWriter, r *http.Request) bool {
	if f.APIKey != "" && r.URL.Query().Get("api_key") != f.APIKey {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *FakeTMDB) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	query := strings.ToLower(r.URL.Query().Get("query"))
	year, _ := strconv.Atoi(r.URL.Query().Get("primary_release_year"))

	f.mu.Lock()
	f.searches++
	var results []tmdb.Result
	for _, movie := range f.movies {
		if !strings.Contains(strings.ToLower(movie.Title), query) {
			continue
		}
		if year > 0 && movie.Year() != year {
			continue
		}
		results = append(results, tmdb.Result{
			ID:          movie.ID,
			Title:       movie.Title,
			Overview:    movie.Overview,
			ReleaseDate: movie.ReleaseDate,
			Popularity:  movie.Popularity,
			VoteAverage: movie.VoteAverage,
		})
	}
	f.mu.Unlock()

	writeJSON(w, tmdb.Response{Page: 1, Results: results, TotalPages: 1, TotalResults: len(results)})
}

func (f *FakeTMDB) handleDetails(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/movie/"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f.mu.Lock()
	f.details++
	delay := f.delays[id]
	var found *tmdb.MovieDetails
	for i := range f.movies {
		if f.movies[i].ID == id {
			movie := f.movies[i]
			found = &movie
			break
		}
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if found == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, found)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Movie builds a MovieDetails value with the fields most tests care about.
func Movie(id int64, title string, year int, genres ...string) tmdb.MovieDetails {
	details := tmdb.MovieDetails{
		ID:          id,
		Title:       title,
		ReleaseDate: strconv.Itoa(year) + "-06-01",
		Overview:    title + " overview.",
		Runtime:     100,
		Popularity:  10,
		VoteAverage: 7.5,
		VoteCount:   1000,
	}
	for i, name := range genres {
		details.Genres = append(details.Genres, tmdb.Genre{ID: int64(i + 1), Name: name})
	}
	details.Credits.Crew = []tmdb.CrewMember{{Name: "Director of " + title, Job: "Director", Department: "Directing"}}
	return details
}
