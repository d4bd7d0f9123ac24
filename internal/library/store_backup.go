package library

import (
	"context"
	"strings"

	"poparch/internal/fileutil"
	"poparch/internal/services"
)

// Checkpoint folds the write-ahead log into the main database file.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.execWithRetry(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return storageError("checkpoint", err)
	}
	return nil
}

// Backup checkpoints the database and copies it to dst. The copy is written
// atomically so an interrupted backup never leaves a truncated file behind.
func (s *Store) Backup(ctx context.Context, dst string) error {
	if strings.TrimSpace(dst) == "" {
		return services.Wrap(services.ErrValidation, "library", "backup", "destination path is empty", nil)
	}
	if err := s.Checkpoint(ctx); err != nil {
		return err
	}
	if err := fileutil.CopyFile(s.path, dst); err != nil {
		return storageError("backup", err)
	}
	return nil
}
