package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"poparch/internal/logging"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Log file utilities",
	}
	logsCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the log file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := newPrinter(cmd.OutOrStdout())
				out.info("%s", ctx.config.LogFilePath())
				if !ctx.config.Logging.Enabled {
					out.warn("File logging is disabled; enable it with 'poparch config logging on'.")
				}
				return nil
			},
		},
		newLogsShowCommand(ctx),
		&cobra.Command{
			Use:   "clear",
			Short: "Truncate the log file and remove rotated backups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// Release our own handle so rotation backups can be removed.
				if ctx.logSetup != nil {
					_ = ctx.logSetup.Close()
					ctx.logSetup = nil
				}
				cleared, err := logging.ClearLogs(ctx.config.LogFilePath())
				if err != nil {
					return err
				}
				newPrinter(cmd.OutOrStdout()).ok("Cleared %d log file(s).", cleared)
				return nil
			},
		},
	)
	return logsCmd
}

func newLogsShowCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the end of the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.config.LogFilePath()
			tail, offset, err := logging.Tail(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 && !follow {
				newPrinter(out).info("No log entries in %s", path)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			err = logging.Follow(cmd.Context(), path, offset, 250*time.Millisecond, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}
