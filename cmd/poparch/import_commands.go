package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"poparch/internal/importer"
	"poparch/internal/logging"
	"poparch/internal/workflow"
)

func reportIngest(out *printer, result workflow.IngestResult, verb string) {
	out.ok("%d new movies %s successfully.", len(result.Added), verb)
	if n := len(result.Duplicates); n > 0 {
		out.info("%d already in the archive.", n)
	}
	if result.MarkedWatched > 0 || result.Rated > 0 {
		out.info("Watched flags applied: %d, ratings applied: %d.", result.MarkedWatched, result.Rated)
	}
	if n := len(result.Rejected); n > 0 {
		out.warn("%d entries skipped (no recognizable title and year):", n)
		for _, raw := range result.Rejected {
			out.info("  - %s", raw)
		}
	}
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <directory>",
		Short: "Add every movie folder found in a directory",
		Long:  "Scan lists the top-level folders of a directory, parses names like \"Title (YYYY)\" and adds them after confirmation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := importer.New(nil).Scan(args[0])
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if batch.Empty() {
				out.warn("No valid movie folders found in this directory.")
				return nil
			}
			out.strong("The following movies were found:")
			for _, entry := range batch.Entries {
				out.info("  - %s", entry.Title)
			}
			if n := len(batch.Rejected); n > 0 {
				out.info("%d folder(s) without a recognizable title and year will be skipped.", n)
			}
			if !ctx.prompter(cmd).confirm("Do you want to add these movies to the archive?") {
				out.info("No movies were added.")
				return nil
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, logger := ctx.commandLogger(cmd)
			result, err := workflow.Ingest(runCtx, store, batch, logger)
			if err != nil {
				return err
			}
			out.ok("%d new movies added successfully.", len(result.Added))
			if n := len(result.Duplicates); n > 0 {
				out.info("%d already in the archive.", n)
			}
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import movies from a CSV file or a Letterboxd export ZIP",
		Long: "Import reads a CSV file whose \"name\" column (or first column) holds \"Title YYYY\" values,\n" +
			"or a Letterboxd export ZIP, whose ratings are converted to the 1-10 scale and marked watched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := importer.New(nil).Load(args[0])
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			if batch.Empty() {
				out.warn("No movies found to import in the CSV file.")
				if n := len(batch.Rejected); n > 0 {
					out.info("%d row(s) had no recognizable title and year.", n)
				}
				return nil
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, logger := ctx.commandLogger(cmd)
			result, err := workflow.Ingest(runCtx, store, batch, logger)
			if err != nil {
				return err
			}
			reportIngest(out, result, "imported")
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the archive to CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			chosen := importer.FormatForPath(path)
			if format != "" {
				parsed, err := importer.ParseFormat(format)
				if err != nil {
					return err
				}
				chosen = parsed
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, logger := ctx.commandLogger(cmd)
			movies, err := store.List(runCtx)
			if err != nil {
				return err
			}
			if err := importer.New(nil).Export(path, chosen, movies); err != nil {
				return err
			}
			logger.Info("archive exported",
				logging.String("path", path),
				logging.String("format", string(chosen)),
				logging.Int("movies", len(movies)))
			newPrinter(cmd.OutOrStdout()).ok("Exported %d movies to %s.", len(movies), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: csv or json (default from file extension)")
	return cmd
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var noBackup bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every movie from the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			if !ctx.prompter(cmd).confirm("This will delete every movie in the archive. Continue?") {
				out.info("Nothing was deleted.")
				return nil
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runCtx, logger := ctx.commandLogger(cmd)
			if !noBackup {
				name := fmt.Sprintf("poparch-backup-%s.db", time.Now().UTC().Format("20060102-150405"))
				backup := filepath.Join(ctx.config.Paths.DataDir, name)
				if err := store.Backup(runCtx, backup); err != nil {
					return err
				}
				out.info("Backup written to %s", backup)
			}
			removed, err := store.Clear(runCtx)
			if err != nil {
				return err
			}
			logger.Info("archive cleared", logging.Int64("removed", removed))
			out.ok("Archive cleared: %d movies removed.", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the database backup taken before clearing")
	return cmd
}
