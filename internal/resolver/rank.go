package resolver

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"poparch/internal/similarity"
	"poparch/internal/tmdb"
)

const overviewLimit = 160

var errEmptyQuery = errors.New("title must not be empty")

// Candidate summarizes one TMDB search result for disambiguation.
type Candidate struct {
	ID         int64
	Title      string
	Year       int
	Popularity float64
	Similarity float64
	Overview   string
}

// Label renders "Title (YYYY)", omitting the year when TMDB has none.
func (c Candidate) Label() string {
	if c.Year <= 0 {
		return c.Title
	}
	return c.Title + " (" + strconv.Itoa(c.Year) + ")"
}

func rankCandidates(query string, year int, results []tmdb.Result) []Candidate {
	candidates := make([]Candidate, 0, len(results))
	for _, res := range results {
		title := strings.TrimSpace(res.Title)
		if title == "" {
			title = strings.TrimSpace(res.OriginalTitle)
		}
		candidates = append(candidates, Candidate{
			ID:         res.ID,
			Title:      title,
			Year:       res.Year(),
			Popularity: res.Popularity,
			Similarity: similarity.Ratio(query, title),
			Overview:   shortOverview(res.Overview),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aExact, bExact := strings.EqualFold(a.Title, query), strings.EqualFold(b.Title, query)
		if aExact != bExact {
			return aExact
		}
		if year > 0 {
			aYear, bYear := a.Year == year, b.Year == year
			if aYear != bYear {
				return aYear
			}
		}
		return a.Popularity > b.Popularity
	})
	return candidates
}

func filterPlausible(ranked []Candidate, threshold float64) []Candidate {
	plausible := make([]Candidate, 0, len(ranked))
	for _, candidate := range ranked {
		if candidate.Similarity > threshold {
			plausible = append(plausible, candidate)
		}
	}
	return plausible
}

func shortOverview(overview string) string {
	overview = strings.Join(strings.Fields(overview), " ")
	if utf8.RuneCountInString(overview) <= overviewLimit {
		return overview
	}
	runes := []rune(overview)
	cut := strings.TrimRight(string(runes[:overviewLimit]), " ,.;:")
	return cut + "..."
}
