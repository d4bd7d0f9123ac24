package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"poparch/internal/library"
	"poparch/internal/resolver"
	"poparch/internal/workflow"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "info <query>",
		Short: "Show details for a movie, fetching them from TMDB when missing",
		Example: "  poparch info \"Alien (1979)\"\n" +
			"  poparch info blade",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())

			movie, err := ctx.findOne(cmd, store, args)
			if errors.Is(err, errChoiceAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			if movie == nil {
				out.warn("Movie '%s' not found in the archive.", strings.Join(args, " "))
				return nil
			}

			if !movie.Enriched() && !offline {
				res := ctx.newResolver()
				if res.Configured() {
					out.info("Fetching details from TMDb API...")
					enriched, err := workflow.Enrich(runCtx, store, res, movie, ctx.candidateChooser(cmd))
					switch {
					case errors.Is(err, workflow.ErrSkipped):
						out.info("No match selected; showing local details only.")
					case err != nil:
						out.warn("Could not fetch details: %s", userMessage(err))
					default:
						movie = enriched
					}
				} else {
					out.warn("%s", userMessage(resolver.NotConfigured("info")))
				}
			}

			out.block(movieDetails(movie, time.Now()))
			if movie.Plot != "" {
				out.info("")
				out.info("%s", movie.Plot)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Never contact TMDB; show stored details only")
	return cmd
}

// movieDetails renders a two column field/value table, omitting empty fields.
func movieDetails(m *library.Movie, now time.Time) string {
	var rows [][]string
	add := func(label, value string) {
		if value == "" || value == "0" {
			return
		}
		rows = append(rows, []string{label, value})
	}

	add("Title", m.Title)
	add("Year", strconv.Itoa(m.Year))
	watched := yesNo(m.Watched)
	if m.Watched && m.WatchedAt != nil {
		watched += " (" + humanize.RelTime(*m.WatchedAt, now, "ago", "from now") + ")"
	}
	rows = append(rows, []string{"Watched", watched})
	if m.UserRating > 0 {
		add("Your rating", fmt.Sprintf("%d/10", m.UserRating))
	}
	add("Tagline", m.Tagline)
	add("Genre", m.Genre)
	add("Director", m.Director)
	add("Writer", m.Writer)
	add("Cinematography", m.Cinematographer)
	add("Cast", m.Cast)
	add("Collection", m.Collection)
	add("Keywords", m.Keywords)
	if m.Runtime > 0 {
		add("Runtime", formatRuntime(m.Runtime))
	}
	add("Release date", m.ReleaseDate)
	add("Language", m.OriginalLanguage)
	if m.Score > 0 {
		add("TMDB score", fmt.Sprintf("%.1f/10 (%s votes)", m.Score, humanize.Comma(m.VoteCount)))
	}
	if m.Popularity > 0 {
		add("Popularity", humanize.FormatFloat("#,###.#", m.Popularity))
	}
	if m.Budget > 0 {
		add("Budget", "$"+humanize.Comma(m.Budget))
	}
	if m.Revenue > 0 {
		add("Revenue", "$"+humanize.Comma(m.Revenue))
	}
	if m.IMDBID != "" {
		add("IMDb", "https://www.imdb.com/title/"+m.IMDBID+"/")
	}
	if m.TMDBID > 0 {
		add("TMDB", "https://www.themoviedb.org/movie/"+strconv.FormatInt(m.TMDBID, 10))
	}
	add("Added", humanize.RelTime(m.AddedAt, now, "ago", "from now"))
	if m.EnrichedAt != nil {
		add("Details fetched", humanize.RelTime(*m.EnrichedAt, now, "ago", "from now"))
	} else {
		rows = append(rows, []string{"Details fetched", "never"})
	}

	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
