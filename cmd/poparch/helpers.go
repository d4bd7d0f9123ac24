package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"poparch/internal/library"
	"poparch/internal/resolver"
	"poparch/internal/titleparse"
)

// parseMovieArgs joins args so unquoted names such as `add The Kid 1921` work.
func parseMovieArgs(args []string) (titleparse.Title, error) {
	raw := strings.TrimSpace(strings.Join(args, " "))
	title, ok := titleparse.Parse(raw)
	if !ok {
		return titleparse.Title{}, fmt.Errorf("invalid movie format '%s'. Must be 'Title YYYY' or 'Title (YYYY)'", raw)
	}
	return title, nil
}

func parseYearArg(value string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || !titleparse.ValidYear(year) {
		return 0, fmt.Errorf("year must be a number between 1801 and 2099, got %q", value)
	}
	return year, nil
}

// validDecade reports whether decade starts a decade inside [1800, 2100].
func validDecade(decade int) bool {
	return decade >= 1800 && decade <= 2100 && decade%10 == 0
}

// candidateChooser asks the user to pick one of several TMDB matches.
func (c *commandContext) candidateChooser(cmd *cobra.Command) func(context.Context, *library.Movie, []resolver.Candidate) (resolver.Candidate, bool) {
	p := c.prompter(cmd)
	return func(_ context.Context, movie *library.Movie, candidates []resolver.Candidate) (resolver.Candidate, bool) {
		options := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			label := candidate.Label()
			if candidate.Overview != "" {
				label += " - " + candidate.Overview
			}
			options = append(options, label)
		}
		idx, ok := p.choose(fmt.Sprintf("Several TMDB matches found for '%s':", movie.Label()), options, true)
		if !ok {
			return resolver.Candidate{}, false
		}
		return candidates[idx], true
	}
}

// findOne resolves a free-form query to a single stored movie, asking the
// user to pick when a substring query matches several.
func (c *commandContext) findOne(cmd *cobra.Command, store *library.Store, args []string) (*library.Movie, error) {
	ctx := cmd.Context()
	if title, err := parseMovieArgs(args); err == nil {
		return store.Get(ctx, title.Name, title.Year)
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	matches, err := store.FindByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	}
	options := make([]string, 0, len(matches))
	for _, m := range matches {
		options = append(options, m.Label())
	}
	idx, ok := c.prompter(cmd).choose(fmt.Sprintf("Several movies match '%s':", query), options, false)
	if !ok {
		return nil, errChoiceAborted
	}
	return matches[idx], nil
}
