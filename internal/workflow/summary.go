package workflow

import (
	"sort"

	"poparch/internal/services"
)

// Failure records why one movie was not updated.
type Failure struct {
	Movie  string
	Kind   services.FailureKind
	Reason string
}

// Summary aggregates the outcome of a batch update.
type Summary struct {
	Total       int
	Updated     int
	Failures    []Failure
	Interrupted bool
}

// Failed returns the number of movies that were attempted and not updated.
func (s Summary) Failed() int {
	return len(s.Failures)
}

// Remaining returns how many movies were never attempted.
func (s Summary) Remaining() int {
	return s.Total - s.Updated - s.Failed()
}

// CountsByKind returns failure counts keyed by kind.
func (s Summary) CountsByKind() map[services.FailureKind]int {
	counts := make(map[services.FailureKind]int)
	for _, failure := range s.Failures {
		counts[failure.Kind]++
	}
	return counts
}

// Kinds returns the failure kinds present, sorted for stable output.
func (s Summary) Kinds() []services.FailureKind {
	counts := s.CountsByKind()
	kinds := make([]services.FailureKind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (s *Summary) fail(movie string, kind services.FailureKind, reason string) {
	s.Failures = append(s.Failures, Failure{Movie: movie, Kind: kind, Reason: reason})
}
