package workflow

import (
	"context"
	"log/slog"

	"poparch/internal/importer"
	"poparch/internal/library"
	"poparch/internal/logging"
)

// IngestResult reports what persisting a batch did.
type IngestResult struct {
	Added      []library.TitleYear
	Duplicates []library.TitleYear
	Rejected   []string
	// MarkedWatched and Rated count entries whose flags came from the source.
	MarkedWatched int
	Rated         int
}

// Ingest stores every parsed entry of batch in one transaction, then applies
// watched flags and ratings carried by the source (Letterboxd exports). Flags
// are applied to duplicates too so re-importing an export refreshes them.
func Ingest(ctx context.Context, store MovieStore, batch importer.Batch, logger *slog.Logger) (IngestResult, error) {
	logger = logging.NewComponentLogger(logger, "ingest")
	result := IngestResult{Rejected: batch.Rejected}
	if batch.Empty() {
		return result, nil
	}

	added, duplicates, err := store.AddMany(ctx, batch.Titles())
	if err != nil {
		return result, err
	}
	result.Added = added
	result.Duplicates = duplicates

	for _, entry := range batch.Entries {
		if entry.Watched {
			if err := store.SetWatched(ctx, entry.Title.Name, entry.Title.Year, true); err != nil {
				return result, err
			}
			result.MarkedWatched++
		}
		if entry.Rating > 0 {
			if err := store.SetRating(ctx, entry.Title.Name, entry.Title.Year, entry.Rating); err != nil {
				return result, err
			}
			result.Rated++
		}
	}

	logger.Info("batch ingested",
		logging.String("source", batch.Source),
		logging.Int("added", len(result.Added)),
		logging.Int("duplicates", len(result.Duplicates)),
		logging.Int("rejected", len(result.Rejected)),
		logging.Int("watched", result.MarkedWatched),
		logging.Int("rated", result.Rated))
	return result, nil
}
