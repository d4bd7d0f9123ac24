package resolver

import (
	"strings"
	"testing"

	"poparch/internal/tmdb"
)

func TestRankCandidatesOrdering(t *testing.T) {
	input := []tmdb.Result{
		{ID: 1, Title: "Heat Wave", ReleaseDate: "1995-01-01", Popularity: 90},
		{ID: 2, Title: "Heat", ReleaseDate: "1986-01-01", Popularity: 5},
		{ID: 3, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 3},
		{ID: 4, Title: "Heat", ReleaseDate: "2013-01-01", Popularity: 20},
	}

	ranked := rankCandidates("heat", 1995, input)
	got := []int64{ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID}
	want := []int64{3, 4, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking with year = %v, want %v", got, want)
		}
	}

	ranked = rankCandidates("heat", 0, input)
	got = []int64{ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID}
	want = []int64{4, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking without year = %v, want %v", got, want)
		}
	}
}

func TestRankCandidatesFallsBackToOriginalTitle(t *testing.T) {
	ranked := rankCandidates("Amelie", 0, []tmdb.Result{{ID: 1, OriginalTitle: "Amelie"}})
	if ranked[0].Title != "Amelie" || ranked[0].Similarity != 100 {
		t.Fatalf("unexpected candidate %#v", ranked[0])
	}
}

func TestFilterPlausibleIsStrict(t *testing.T) {
	ranked := []Candidate{{ID: 1, Similarity: 60}, {ID: 2, Similarity: 60.5}}
	plausible := filterPlausible(ranked, 60)
	if len(plausible) != 1 || plausible[0].ID != 2 {
		t.Fatalf("expected only candidates above threshold, got %#v", plausible)
	}
}

func TestShortOverview(t *testing.T) {
	if got := shortOverview("  A   crew  "); got != "A crew" {
		t.Fatalf("unexpected overview %q", got)
	}
	long := strings.Repeat("word ", 60)
	got := shortOverview(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) > overviewLimit+3 {
		t.Fatalf("expected truncated overview, got %q", got)
	}
}

func TestCandidateLabel(t *testing.T) {
	if got := (Candidate{Title: "Alien", Year: 1979}).Label(); got != "Alien (1979)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := (Candidate{Title: "Untitled"}).Label(); got != "Untitled" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestBuildEnrichment(t *testing.T) {
	details := &tmdb.MovieDetails{
		ID:          348,
		IMDBID:      "tt0078748",
		Title:       "Alien",
		ReleaseDate: "1979-05-25",
		Runtime:     117,
		Budget:      11000000,
		Revenue:     104931801,
		PosterPath:  "/poster.jpg",
		VoteAverage: 8.1,
		Genres:      []tmdb.Genre{{Name: "Horror"}, {Name: "Science Fiction"}},
		Collection:  &tmdb.Collection{Name: "Alien Collection"},
		Credits: tmdb.Credits{
			Crew: []tmdb.CrewMember{
				{Name: "Ridley Scott", Job: "Director"},
				{Name: "Dan O'Bannon", Job: "Screenplay"},
				{Name: "Dan O'Bannon", Job: "Writer"},
				{Name: "Derek Vanlint", Job: "Director of Photography"},
				{Name: "Jerry Goldsmith", Job: "Original Music Composer"},
			},
		},
		Keywords: tmdb.Keywords{Keywords: []tmdb.Keyword{{Name: "space"}, {Name: "android"}}},
	}
	for i := 0; i < 10; i++ {
		details.Credits.Cast = append(details.Credits.Cast, tmdb.CastMember{Name: string(rune('A'+i)) + " Actor", Order: i})
	}

	got := buildEnrichment(details)
	if got.Genre != "Horror, Science Fiction" {
		t.Fatalf("unexpected genre %q", got.Genre)
	}
	if got.Director != "Ridley Scott" || got.Writer != "Dan O'Bannon" || got.Cinematographer != "Derek Vanlint" {
		t.Fatalf("unexpected crew fields %#v", got)
	}
	if names := strings.Split(got.Cast, ", "); len(names) != castLimit {
		t.Fatalf("expected %d cast names, got %q", castLimit, got.Cast)
	}
	if got.Keywords != "space, android" || got.Collection != "Alien Collection" {
		t.Fatalf("unexpected keywords or collection %#v", got)
	}
	if got.Year != 1979 || got.Runtime != 117 || got.Budget != 11000000 || got.Revenue != 104931801 || got.PosterPath != "/poster.jpg" {
		t.Fatalf("unexpected passthrough fields %#v", got)
	}
	if got.FetchedAt.IsZero() {
		t.Fatal("expected fetch timestamp")
	}
}
