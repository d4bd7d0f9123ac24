// Package similarity scores how closely two movie titles match on a 0..100
// scale.
package similarity

import (
	"strings"
	"unicode"
)

// Ratio returns the indel similarity of a and b after normalization, scaled to
// 0..100. Identical titles score 100; titles with no common characters score 0.
//
// The score is 200*LCS/(len(a)+len(b)), where LCS is the longest common
// subsequence of runes. Two empty strings are considered identical.
func Ratio(a, b string) float64 {
	na := []rune(normalize(a))
	nb := []rune(normalize(b))

	total := len(na) + len(nb)
	if total == 0 {
		return 100
	}
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}
	if string(na) == string(nb) {
		return 100
	}
	common := longestCommonSubsequence(na, nb)
	return 200 * float64(common) / float64(total)
}

// normalize lowercases s, maps "&" to "and", turns separators into spaces and
// drops other punctuation so "Spider-Man: Far From Home" and
// "spider man far from home" compare equal.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else if unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' || r == ':' {
			result.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(result.String()), " ")
}

// longestCommonSubsequence uses a rolling two-row table.
func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
