package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/time/rate"

	"poparch/internal/config"
	"poparch/internal/library"
	"poparch/internal/logging"
	"poparch/internal/resolver"
	"poparch/internal/services"
)

// ErrUpdateInProgress is returned when another update run holds the lock.
var ErrUpdateInProgress = errors.New("another poparch update is already running")

// UpdateOptions controls one batch update run.
type UpdateOptions struct {
	// Force re-fetches metadata for every movie, not only unenriched ones.
	Force bool
	// OnStart is called once with the number of movies selected.
	OnStart func(total int)
	// OnItem is called after each attempted movie.
	OnItem func(movie *library.Movie, err error)
}

// Updater enriches library movies in a sequential, rate-limited loop.
type Updater struct {
	store    MovieStore
	resolver MetadataResolver
	logger   *slog.Logger
	delay    time.Duration
	lockPath string
}

// NewUpdater wires an Updater from configuration.
func NewUpdater(cfg *config.Config, store MovieStore, res MetadataResolver, logger *slog.Logger) *Updater {
	u := &Updater{
		store:    store,
		resolver: res,
		logger:   logging.NewComponentLogger(logger, "updater"),
	}
	if cfg != nil {
		u.delay = cfg.TMDBRequestDelay()
		u.lockPath = cfg.UpdateLockPath()
	}
	return u
}

func (u *Updater) limiter() *rate.Limiter {
	if u.delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(u.delay), 1)
}

func (u *Updater) acquireLock() (*flock.Flock, error) {
	if u.lockPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(u.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(u.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire update lock: %w", err)
	}
	if !ok {
		return nil, ErrUpdateInProgress
	}
	return lock, nil
}

// Run resolves every selected movie and stores its metadata. Per-item TMDB
// failures are recorded in the Summary; a storage failure or a missing API
// key aborts the run. Cancellation stops before the next item and returns
// the partial Summary with a nil error.
func (u *Updater) Run(ctx context.Context, opts UpdateOptions) (Summary, error) {
	var summary Summary
	if !u.resolver.Configured() {
		return summary, resolver.NotConfigured("update")
	}

	lock, err := u.acquireLock()
	if err != nil {
		return summary, err
	}
	if lock != nil {
		defer func() {
			if err := lock.Unlock(); err != nil {
				u.logger.Warn("failed to release update lock", logging.Error(err))
			}
		}()
	}

	var movies []*library.Movie
	if opts.Force {
		movies, err = u.store.List(ctx)
	} else {
		movies, err = u.store.MissingEnrichment(ctx)
	}
	if err != nil {
		return summary, err
	}
	summary.Total = len(movies)
	if opts.OnStart != nil {
		opts.OnStart(summary.Total)
	}
	u.logger.Info("metadata update started",
		logging.Int("movies", summary.Total),
		logging.Bool("force", opts.Force),
		logging.Duration("delay", u.delay))

	limiter := u.limiter()
	for _, movie := range movies {
		if err := limiter.Wait(ctx); err != nil {
			summary.Interrupted = true
			break
		}
		itemErr := u.updateOne(ctx, movie)
		if itemErr != nil && ctx.Err() != nil && errors.Is(itemErr, context.Canceled) {
			summary.Interrupted = true
			break
		}
		if opts.OnItem != nil {
			opts.OnItem(movie, itemErr)
		}
		if itemErr == nil {
			summary.Updated++
			continue
		}
		kind := services.Classify(itemErr)
		if kind == services.FailureStorage {
			return summary, itemErr
		}
		summary.fail(movie.Label(), kind, itemErr.Error())
		logging.WarnWithContext(u.logger, "metadata update failed", "update_item_failed",
			logging.String(logging.FieldMovie, movie.Label()),
			logging.String("failure_kind", string(kind)),
			logging.Error(itemErr),
			logging.String(logging.FieldImpact, "movie keeps its previous metadata"),
		)
	}

	u.logger.Info("metadata update finished",
		logging.Int("updated", summary.Updated),
		logging.Int("failed", summary.Failed()),
		logging.Bool("interrupted", summary.Interrupted))
	return summary, nil
}

func (u *Updater) updateOne(ctx context.Context, movie *library.Movie) error {
	ctx = services.WithMovie(ctx, movie.Label())
	outcome, err := u.resolver.Resolve(ctx, movie.Title, movie.Year)
	if err != nil {
		return err
	}
	if outcome.Ambiguous() {
		return ambiguityError(len(outcome.Candidates))
	}
	return u.store.UpdateEnrichment(ctx, movie.Title, movie.Year, ToLibrary(outcome.Match))
}

// ambiguousError is reported for batch items that need a human choice.
type ambiguousError struct {
	candidates int
}

func (e *ambiguousError) Error() string {
	return fmt.Sprintf("%d plausible matches; run 'poparch info' to choose", e.candidates)
}

func (e *ambiguousError) ErrorKind() string { return string(services.FailureAmbiguous) }

func ambiguityError(n int) error {
	return &ambiguousError{candidates: n}
}
