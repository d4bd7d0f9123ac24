// Package logging assembles structured slog loggers and formatting helpers used
// across poparch.
//
// It owns the console (key=value) and JSON handlers, the rotating log file
// (poparch.log, written through lumberjack only when logging is enabled), and
// the optional verbose stderr stream. Every record carries a per-invocation
// session_id so one command run can be picked out of the shared file.
// Context helpers tag lines with the command and movie being processed. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
