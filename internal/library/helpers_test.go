package library

import (
	"errors"
	"reflect"
	"testing"
)

func TestLikePatternEscapes(t *testing.T) {
	if got := likePattern(` 50%_off\ `); got != `%50\%\_off\\%` {
		t.Fatalf("likePattern = %q", got)
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" Drama, ,Crime "); !reflect.DeepEqual(got, []string{"Drama", "Crime"}) {
		t.Fatalf("splitList = %#v", got)
	}
	if splitList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
}

func TestSortedCountsLimit(t *testing.T) {
	got := sortedCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	want := []NameCount{{"c", 5}, {"a", 2}, {"b", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sortedCounts = %#v", got)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if !isSQLiteBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected busy message to match")
	}
	if isSQLiteBusy(errors.New("no such table")) || isSQLiteBusy(nil) {
		t.Fatal("unexpected busy match")
	}
}
