package titleparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minYearExclusive = 1800
	maxYearExclusive = 2100
)

// parenthesizedYearPattern matches a four digit group closed immediately by a
// parenthesis, so "(1080p)" and "(19931)" never qualify.
var parenthesizedYearPattern = regexp.MustCompile(`\((\d{4})\)`)

var titleTrimSet = " \t-_"

// Title is a parsed (title, year) pair.
type Title struct {
	Name string
	Year int
}

// String renders the canonical "Title (YYYY)" form. Parsing the rendered value
// yields the same Title.
func (t Title) String() string {
	return fmt.Sprintf("%s (%d)", t.Name, t.Year)
}

// Key returns the case-insensitive identity used for duplicate detection.
func (t Title) Key() string {
	return strings.ToLower(t.Name) + "|" + strconv.Itoa(t.Year)
}

// ValidYear reports whether year lies strictly between 1800 and 2100.
func ValidYear(year int) bool {
	return year > minYearExclusive && year < maxYearExclusive
}

// Parse extracts a title and year from input. The boolean is false when no
// convention yields a valid pair.
func Parse(input string) (Title, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Title{}, false
	}
	if title, ok := parseParenthesized(trimmed); ok {
		return title, true
	}
	return parseTrailingYear(trimmed)
}

// parseParenthesized scans "(YYYY)" groups in order and accepts the first one
// preceded by a non-empty title and carrying a valid year. Anything after the
// closing parenthesis is discarded.
func parseParenthesized(value string) (Title, bool) {
	for _, loc := range parenthesizedYearPattern.FindAllStringSubmatchIndex(value, -1) {
		year, err := strconv.Atoi(value[loc[2]:loc[3]])
		if err != nil || !ValidYear(year) {
			continue
		}
		name := Normalize(value[:loc[0]])
		if name == "" {
			continue
		}
		return Title{Name: name, Year: year}, true
	}
	return Title{}, false
}

func parseTrailingYear(value string) (Title, bool) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return Title{}, false
	}
	last := fields[len(fields)-1]
	if !isDigits(last) {
		return Title{}, false
	}
	year, err := strconv.Atoi(last)
	if err != nil || !ValidYear(year) {
		return Title{}, false
	}
	name := Normalize(strings.Join(fields[:len(fields)-1], " "))
	if name == "" {
		return Title{}, false
	}
	return Title{Name: name, Year: year}, true
}

// Normalize collapses whitespace and applies title-case. It is idempotent.
func Normalize(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	collapsed = strings.Trim(collapsed, titleTrimSet)
	if collapsed == "" {
		return ""
	}
	return cases.Title(language.Und).String(collapsed)
}

// Partition parses every input and splits the results into valid titles and
// the raw strings that did not parse. Blank inputs are dropped silently.
func Partition(inputs []string) ([]Title, []string) {
	valid := make([]Title, 0, len(inputs))
	var rejected []string
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		title, ok := Parse(input)
		if !ok {
			rejected = append(rejected, input)
			continue
		}
		valid = append(valid, title)
	}
	return valid, rejected
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
