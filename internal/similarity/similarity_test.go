package similarity

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "The Matrix", "The Matrix", 100},
		{"case insensitive", "the matrix", "THE MATRIX", 100},
		{"punctuation ignored", "Spider-Man: Far From Home", "spider man far from home", 100},
		{"ampersand", "Me & You", "Me and You", 100},
		{"both empty", "", "", 100},
		{"one empty", "Alien", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"half overlap", "abcd", "abxy", 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Ratio(tc.a, tc.b)
			if math.Abs(got-tc.expected) > 0.001 {
				t.Fatalf("Ratio(%q, %q) = %.3f, want %.3f", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestRatioIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"The Thing", "The Things"},
		{"Alien", "Aliens"},
		{"Heat", "The Heat"},
	}
	for _, p := range pairs {
		if Ratio(p[0], p[1]) != Ratio(p[1], p[0]) {
			t.Fatalf("Ratio not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestRatioThresholdBehaviour(t *testing.T) {
	if got := Ratio("Alien", "Aliens"); got <= 60 {
		t.Fatalf("expected close titles above 60, got %.2f", got)
	}
	if got := Ratio("Alien", "The Lord of the Rings"); got >= 60 {
		t.Fatalf("expected unrelated titles below 60, got %.2f", got)
	}
}
