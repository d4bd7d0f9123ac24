package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"poparch/internal/library"
)

func printMovies(out *printer, header string, movies []*library.Movie) {
	out.strong("%s", header)
	out.block(movieTable(movies))
	out.info("%d movie(s).", len(movies))
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		filter    library.Filter
		watched   bool
		unwatched bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the archive by title and optional filters",
		Example: "  poparch search matrix\n" +
			"  poparch search --decade 1990 --genre drama --unwatched",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watched && unwatched {
				return errors.New("--watched and --unwatched cannot be combined")
			}
			if filter.Decade != 0 && !validDecade(filter.Decade) {
				return errInvalidDecade
			}
			filter.Query = strings.Join(args, " ")
			switch {
			case watched:
				v := true
				filter.Watched = &v
			case unwatched:
				v := false
				filter.Watched = &v
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			movies, err := store.Search(runCtx, filter)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if len(movies) == 0 {
				out.warn("No movie found with that query.")
				return nil
			}
			printMovies(out, "Found results:", movies)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&filter.Year, "year", 0, "Only movies released in this year")
	flags.IntVar(&filter.Decade, "decade", 0, "Only movies from the decade starting at this year")
	flags.StringVar(&filter.Genre, "genre", "", "Only movies whose genre contains this text")
	flags.StringVar(&filter.Director, "director", "", "Only movies whose director contains this text")
	flags.BoolVar(&watched, "watched", false, "Only watched movies")
	flags.BoolVar(&unwatched, "unwatched", false, "Only movies not watched yet")
	flags.IntVar(&filter.MinRating, "min-rating", 0, "Minimum personal rating (1-10)")
	flags.Float64Var(&filter.MinScore, "min-score", 0, "Minimum TMDB score")
	flags.IntVar(&filter.Limit, "limit", 0, "Maximum number of results")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every movie in the archive",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			movies, err := store.List(runCtx)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if len(movies) == 0 {
				out.warn("The archive is empty. Add some movies first.")
				return nil
			}
			printMovies(out, "Movies in the archive:", movies)
			return nil
		},
	}
}

func newRandomCommand(ctx *commandContext) *cobra.Command {
	var unwatched bool
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Suggest a random movie to watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			movie, err := store.Random(runCtx, unwatched)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if movie == nil {
				if unwatched {
					out.warn("Every movie in the archive has been watched.")
				} else {
					out.warn("The archive is empty. Add some movies first.")
				}
				return nil
			}
			out.info("Today's random movie suggestion:")
			out.strong("-> %s", movie.Label())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unwatched, "unwatched", "u", false, "Only suggest movies not watched yet")
	return cmd
}

func newYearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "year <year>",
		Short: "List movies released in a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYearArg(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			movies, err := store.ByYear(runCtx, year)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if len(movies) == 0 {
				out.warn("No movies found for the year %d.", year)
				return nil
			}
			printMovies(out, fmt.Sprintf("Movies from %d:", year), movies)
			return nil
		},
	}
}

var errInvalidDecade = errors.New("decade must be a valid start of a decade (e.g., 1980, 1990, 2020)")

func newDecadeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decade <decade>",
		Short: "List movies from a decade, e.g. 1990",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decade, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(args[0]), "s"))
			if err != nil || !validDecade(decade) {
				return errInvalidDecade
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			movies, err := store.ByDecade(runCtx, decade)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if len(movies) == 0 {
				out.warn("No movies found for the %ds decade.", decade)
				return nil
			}
			printMovies(out, fmt.Sprintf("Movies from the %ds:", decade), movies)
			return nil
		},
	}
}

func newGenreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genre [name]",
		Short: "List movies by genre, choosing from a menu when no name is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())

			genre := strings.TrimSpace(strings.Join(args, " "))
			if genre == "" {
				genres, err := store.Genres(runCtx)
				if err != nil {
					return err
				}
				if len(genres) == 0 {
					out.warn("No genres found in the database. Run 'poparch update' to fetch details.")
					return nil
				}
				options := make([]string, 0, len(genres))
				for _, g := range genres {
					options = append(options, fmt.Sprintf("%s (%d)", g.Name, g.Count))
				}
				idx, ok := ctx.prompter(cmd).choose("Please choose a genre:", options, false)
				if !ok {
					return nil
				}
				genre = genres[idx].Name
			}

			movies, err := store.Search(runCtx, library.Filter{Genre: genre})
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				out.warn("No movies found for the genre '%s'.", genre)
				return nil
			}
			printMovies(out, fmt.Sprintf("Movies matching genre '%s':", genre), movies)
			return nil
		},
	}
}
