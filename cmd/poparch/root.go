package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "poparch",
		Short:         "Manage a personal movie watchlist",
		Long:          "poparch keeps a local archive of movies (title and year), enriches them with TMDB metadata and reports statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Stream debug logs to stderr")
	flags.BoolVarP(&ctx.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(
		newAddCommand(ctx),
		newScanCommand(ctx),
		newImportCommand(ctx),
		newExportCommand(ctx),
		newSearchCommand(ctx),
		newListCommand(ctx),
		newRandomCommand(ctx),
		newYearCommand(ctx),
		newDecadeCommand(ctx),
		newGenreCommand(ctx),
		newDeleteCommand(ctx),
		newClearCommand(ctx),
		newWatchCommand(ctx, true),
		newWatchCommand(ctx, false),
		newRateCommand(ctx),
		newInfoCommand(ctx),
		newUpdateCommand(ctx),
		newStatsCommand(ctx),
		newConfigCommand(ctx),
		newLogsCommand(ctx),
	)
	return rootCmd
}
