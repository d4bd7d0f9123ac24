package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearLogs(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "poparch.log")
	rotated := filepath.Join(dir, "poparch-2026-01-02T03-04-05.000.log")
	compressed := filepath.Join(dir, "poparch-2026-01-01T03-04-05.000.log.gz")
	other := filepath.Join(dir, "poparch.db")
	for _, path := range []string{active, rotated, compressed, other} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cleared, err := ClearLogs(active)
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if cleared != 3 {
		t.Fatalf("cleared = %d, want 3", cleared)
	}
	info, err := os.Stat(active)
	if err != nil || info.Size() != 0 {
		t.Fatalf("active log should be truncated: %v %v", info, err)
	}
	for _, gone := range []string{rotated, compressed} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("%s should be removed", gone)
		}
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("unrelated file removed: %v", err)
	}
}

func TestClearLogsMissingFile(t *testing.T) {
	cleared, err := ClearLogs(filepath.Join(t.TempDir(), "poparch.log"))
	if err != nil || cleared != 0 {
		t.Fatalf("ClearLogs = %d, %v", cleared, err)
	}
	if _, err := ClearLogs(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
