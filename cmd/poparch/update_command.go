package main

import (
	"errors"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"poparch/internal/library"
	"poparch/internal/workflow"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch TMDB details for movies that do not have them yet",
		Long: "Update looks up every movie without stored details on TMDB, one request at a time.\n" +
			"Use --force to refresh every movie. Failures are reported per movie and do not stop the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, _ := ctx.commandLogger(cmd)
			out := newPrinter(cmd.OutOrStdout())

			var bar *progressbar.ProgressBar
			opts := workflow.UpdateOptions{
				Force: force,
				OnStart: func(total int) {
					if total > 0 {
						bar = newProgressBar(cmd.ErrOrStderr(), total)
					}
				},
				OnItem: func(*library.Movie, error) {
					if bar != nil {
						_ = bar.Add(1)
					}
				},
			}

			summary, err := ctx.newUpdater(store).Run(runCtx, opts)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				if errors.Is(err, workflow.ErrUpdateInProgress) {
					return errors.New("another update is already running; wait for it to finish")
				}
				return err
			}

			if summary.Total == 0 {
				if force {
					out.warn("The archive is empty. Add some movies first.")
				} else {
					out.ok("All movies already have details. Use --force to refresh them.")
				}
				return nil
			}
			printUpdateSummary(out, summary)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Refresh details for every movie")
	return cmd
}

// newProgressBar draws on w only when it is a terminal.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if !shouldColorize(w) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Updating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func printUpdateSummary(out *printer, summary workflow.Summary) {
	out.strong("Update Summary")
	out.ok("Successfully updated: %d", summary.Updated)
	if failed := summary.Failed(); failed > 0 {
		out.fail("Failed: %d", failed)
		counts := summary.CountsByKind()
		for _, kind := range summary.Kinds() {
			out.info("  %s: %d", kind, counts[kind])
		}
		rows := make([][]string, 0, failed)
		for _, failure := range summary.Failures {
			rows = append(rows, []string{failure.Movie, string(failure.Kind), failure.Reason})
		}
		out.block(renderTable([]string{"Movie", "Reason", "Detail"}, rows, nil))
	}
	if summary.Interrupted {
		out.warn("Interrupted: %d movies were not attempted.", summary.Remaining())
	}
}
