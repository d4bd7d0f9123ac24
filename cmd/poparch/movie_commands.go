package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"poparch/internal/library"
	"poparch/internal/logging"
	"poparch/internal/resolver"
	"poparch/internal/workflow"
)

var errChoiceAborted = errors.New("no selection made")

func newAddCommand(ctx *commandContext) *cobra.Command {
	var enrich bool
	cmd := &cobra.Command{
		Use:     "add <title> <year>",
		Short:   "Add a movie to the archive",
		Example: "  poparch add \"The Kid 1921\"\n  poparch add \"Naked (1993)\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := parseMovieArgs(args)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, logger := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())

			err = store.Add(runCtx, title.Name, title.Year)
			switch {
			case errors.Is(err, library.ErrDuplicate):
				out.warn("Movie '%s' already exists in the archive.", title)
				return nil
			case err != nil:
				return err
			}
			logger.Info("movie added", logging.String(logging.FieldMovie, title.String()))
			out.ok("Movie '%s' added successfully.", title)

			if !enrich {
				return nil
			}
			res := ctx.newResolver()
			if !res.Configured() {
				out.warn("Skipping TMDB lookup: %s", userMessage(resolver.NotConfigured("add")))
				return nil
			}
			movie, err := store.Get(runCtx, title.Name, title.Year)
			if err != nil {
				return err
			}
			out.info("Fetching details from TMDb API...")
			if _, err := workflow.Enrich(runCtx, store, res, movie, ctx.candidateChooser(cmd)); err != nil {
				if errors.Is(err, workflow.ErrSkipped) {
					out.info("No match selected; details can be fetched later with 'poparch update'.")
					return nil
				}
				out.warn("Could not fetch details: %s", userMessage(err))
				return nil
			}
			out.ok("Details saved for '%s'.", title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&enrich, "enrich", "e", false, "Fetch TMDB details right after adding")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title> <year>",
		Short: "Remove a movie from the archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := parseMovieArgs(args)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if !ctx.prompter(cmd).confirm(fmt.Sprintf("Are you sure you want to delete '%s'?", title)) {
				out.info("Deletion cancelled.")
				return nil
			}
			runCtx, logger := ctx.commandLogger(cmd)
			err = store.Delete(runCtx, title.Name, title.Year)
			switch {
			case errors.Is(err, library.ErrNotFound):
				out.warn("Movie '%s' not found in the archive.", title)
				return nil
			case err != nil:
				return err
			}
			logger.Info("movie deleted", logging.String(logging.FieldMovie, title.String()))
			out.ok("Movie '%s' was successfully deleted.", title)
			return nil
		},
	}
}

func newWatchCommand(ctx *commandContext, watched bool) *cobra.Command {
	use, short, done := "watch", "Mark a movie as watched", "marked as watched"
	if !watched {
		use, short, done = "unwatch", "Mark a movie as not watched", "marked as unwatched"
	}
	return &cobra.Command{
		Use:   use + " <title> <year>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := parseMovieArgs(args)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())
			err = store.SetWatched(runCtx, title.Name, title.Year, watched)
			switch {
			case errors.Is(err, library.ErrNotFound):
				out.warn("Movie '%s' not found in the archive.", title)
				return nil
			case err != nil:
				return err
			}
			out.ok("Movie '%s' %s.", title, done)
			return nil
		},
	}
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rate <title> <year> <rating>",
		Short:   "Rate a movie from 1 to 10 (0 clears the rating)",
		Example: "  poparch rate \"The Kid 1921\" 8",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[len(args)-1])
			if err != nil || rating < 0 || rating > 10 {
				return fmt.Errorf("rating must be a number from 1 to 10 (0 clears it), got %q", args[len(args)-1])
			}
			title, err := parseMovieArgs(args[:len(args)-1])
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())
			err = store.SetRating(runCtx, title.Name, title.Year, rating)
			switch {
			case errors.Is(err, library.ErrNotFound):
				out.warn("Movie '%s' not found in the archive.", title)
				return nil
			case err != nil:
				return err
			}
			if rating == 0 {
				out.ok("Rating cleared for '%s'.", title)
			} else {
				out.ok("Rated '%s' %d/10.", title, rating)
			}
			return nil
		},
	}
}
