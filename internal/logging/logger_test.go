package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poparch/internal/config"
	"poparch/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigDisabledIsSilent(t *testing.T) {
	cfg := testConfig(t)
	var stderr bytes.Buffer
	setup, err := NewFromConfig(cfg, false, &stderr)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer setup.Close()

	setup.Logger.Error("nobody hears this")
	if stderr.Len() != 0 {
		t.Fatalf("expected no output, got %q", stderr.String())
	}
	if setup.LogPath != "" {
		t.Fatalf("expected no log path, got %q", setup.LogPath)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); !os.IsNotExist(err) {
		t.Fatalf("log dir should not be created when logging is disabled: %v", err)
	}
	if setup.SessionID == "" {
		t.Fatal("expected a session id")
	}
}

func TestNewFromConfigWritesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Enabled = true
	cfg.Logging.Format = "json"

	setup, err := NewFromConfig(cfg, false, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	ctx := services.WithCommand(context.Background(), "add")
	WithContext(ctx, setup.Logger).Info("movie added", "movie", "Alien (1979)")
	setup.Logger.Debug("below configured level")
	if err := setup.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"movie added"`, `"command":"add"`, `"session_id":"` + setup.SessionID + `"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
	if strings.Contains(out, "below configured level") {
		t.Fatalf("debug record written at info level: %s", out)
	}
}

func TestNewFromConfigVerboseStreamsDebug(t *testing.T) {
	cfg := testConfig(t)
	var stderr bytes.Buffer
	setup, err := NewFromConfig(cfg, true, &stderr)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer setup.Close()

	setup.Logger.Debug("searching", "query", "alien")
	out := stderr.String()
	if !strings.Contains(out, "DEBUG searching") || !strings.Contains(out, "query=alien") {
		t.Fatalf("unexpected verbose output %q", out)
	}
	if strings.Contains(out, FieldSessionID) {
		t.Fatalf("session id should be hidden on stderr: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "WARNING": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
