package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"poparch/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level     string
	Format    string
	Writer    io.Writer
	AddSource bool
}

// New constructs a slog logger writing to opts.Writer (stderr when unset).
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "", "console", "text":
		return newPrettyHandler(writer, levelVar, opts.AddSource, FieldSessionID), nil
	case "json":
		return newJSONHandler(writer, levelVar, opts.AddSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// Setup is the logger assembled for one command invocation.
type Setup struct {
	Logger    *slog.Logger
	SessionID string
	// LogPath is empty when file logging is disabled.
	LogPath string

	closers []io.Closer
}

// Close flushes and releases the log file, if any.
func (s *Setup) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// NewFromConfig builds the invocation logger. The rotating log file is only
// attached when logging is enabled in cfg; verbose adds a debug stream on
// stderr. With neither, the returned logger discards everything.
func NewFromConfig(cfg *config.Config, verbose bool, stderr io.Writer) (*Setup, error) {
	setup := &Setup{SessionID: NewSessionID()}
	var handlers []slog.Handler

	if cfg != nil && cfg.Logging.Enabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFilePath(),
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
		fileHandler, err := newHandler(Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: rotator,
		})
		if err != nil {
			_ = rotator.Close()
			return nil, err
		}
		handlers = append(handlers, fileHandler)
		setup.closers = append(setup.closers, rotator)
		setup.LogPath = cfg.LogFilePath()
	}

	if verbose {
		if stderr == nil {
			stderr = os.Stderr
		}
		handlers = append(handlers, newPrettyHandler(stderr, slog.LevelDebug, false, FieldSessionID))
	}

	setup.Logger = slog.New(newSessionIDHandler(newFanoutHandler(handlers...), setup.SessionID))
	return setup, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
