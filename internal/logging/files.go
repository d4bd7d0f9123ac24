package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ClearLogs truncates the active log file and removes rotated backups next to
// it. It returns the number of files touched. A missing log file is not an
// error.
func ClearLogs(path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("log path is empty")
	}
	cleared := 0
	if err := os.Truncate(path, 0); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("truncate log file: %w", err)
		}
	} else {
		cleared++
	}

	backups, err := rotatedBackups(path)
	if err != nil {
		return cleared, err
	}
	for _, backup := range backups {
		if err := os.Remove(backup); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cleared, fmt.Errorf("remove rotated log: %w", err)
		}
		cleared++
	}
	return cleared, nil
}

// rotatedBackups lists files named like "poparch-<timestamp>.log[.gz]", the
// pattern lumberjack uses for rotated output.
func rotatedBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "-"
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*"+ext+"*"))
	if err != nil {
		return nil, fmt.Errorf("list rotated logs: %w", err)
	}
	return matches, nil
}
