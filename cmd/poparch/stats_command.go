package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"poparch/internal/library"
)

const statsTopGenres = 10

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			stats, err := store.Stats(runCtx)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if stats.Total == 0 {
				out.warn("The archive is empty. Add some movies first.")
				return nil
			}
			renderStats(out, stats)
			return nil
		},
	}
}

func renderStats(out *printer, stats library.Stats) {
	out.strong("Archive statistics")
	rows := [][]string{
		{"Movies", humanize.Comma(int64(stats.Total))},
		{"Watched", fmt.Sprintf("%s (%s)", humanize.Comma(int64(stats.Watched)), percent(stats.Watched, stats.Total))},
		{"Unwatched", humanize.Comma(int64(stats.Unwatched()))},
		{"With TMDB details", fmt.Sprintf("%s (%s)", humanize.Comma(int64(stats.Enriched)), percent(stats.Enriched, stats.Total))},
		{"Rated by you", humanize.Comma(int64(stats.Rated))},
	}
	if stats.Rated > 0 {
		rows = append(rows, []string{"Average rating", humanize.FormatFloat("#.##", stats.AverageRating) + "/10"})
	}
	if stats.AverageScore > 0 {
		rows = append(rows, []string{"Average TMDB score", humanize.FormatFloat("#.##", stats.AverageScore) + "/10"})
	}
	if stats.TotalRuntime > 0 {
		rows = append(rows,
			[]string{"Total runtime", formatRuntime(stats.TotalRuntime)},
			[]string{"Time spent watching", formatRuntime(stats.WatchedTime)},
		)
	}
	out.block(renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(stats.Genres) > 0 {
		out.strong("Top genres")
		out.block(countTable("Genre", limitCounts(stats.Genres, statsTopGenres)))
	}
	if len(stats.Directors) > 0 {
		out.strong("Top directors")
		out.block(countTable("Director", stats.Directors))
	}
	if len(stats.Decades) > 0 {
		out.strong("Movies per decade")
		rows := make([][]string, 0, len(stats.Decades))
		for _, d := range stats.Decades {
			rows = append(rows, []string{strconv.Itoa(d.Decade) + "s", humanize.Comma(int64(d.Count)), bar(d.Count, maxDecadeCount(stats.Decades))})
		}
		out.block(renderTable([]string{"Decade", "Movies", ""}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
	}
	if len(stats.Ratings) > 0 {
		out.strong("Your ratings")
		ratings := make([]int, 0, len(stats.Ratings))
		for r := range stats.Ratings {
			ratings = append(ratings, r)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ratings)))
		rows := make([][]string, 0, len(ratings))
		for _, r := range ratings {
			rows = append(rows, []string{strconv.Itoa(r), humanize.Comma(int64(stats.Ratings[r]))})
		}
		out.block(renderTable([]string{"Rating", "Movies"}, rows, []columnAlignment{alignRight, alignRight}))
	}
}

func countTable(label string, counts []library.NameCount) string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Name, humanize.Comma(int64(c.Count))})
	}
	return renderTable([]string{label, "Movies"}, rows, []columnAlignment{alignLeft, alignRight})
}

func limitCounts(counts []library.NameCount, limit int) []library.NameCount {
	if len(counts) <= limit {
		return counts
	}
	return counts[:limit]
}

func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return humanize.FormatFloat("#.#", float64(part)*100/float64(total)) + "%"
}

func maxDecadeCount(decades []library.DecadeCount) int {
	highest := 0
	for _, d := range decades {
		highest = max(highest, d.Count)
	}
	return highest
}

// bar scales count against highest into at most 20 cells.
func bar(count, highest int) string {
	if highest == 0 {
		return ""
	}
	cells := max(count*20/highest, 1)
	return strings.Repeat("#", cells)
}
