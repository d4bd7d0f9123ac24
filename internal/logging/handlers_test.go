package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := newFanoutHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("movie", "Alien (1979)")
	logger.Debug("ranking candidates")
	logger.Warn("lookup timed out")

	if got := strings.Count(debugBuf.String(), "\n"); got != 2 {
		t.Fatalf("debug handler got %d lines: %s", got, debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "ranking candidates") {
		t.Fatalf("warn handler received debug record: %s", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "movie=\"Alien (1979)\"") {
		t.Fatalf("expected attrs to propagate: %s", warnBuf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-4) {
		t.Fatal("expected level below every handler to be disabled")
	}
}

func TestSessionIDHandlerAddsID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionIDHandler(slog.NewJSONHandler(&buf, nil), "session-abc")).With("extra", "value")
	logger.Info("test message")

	out := buf.String()
	if !strings.Contains(out, `"session_id":"session-abc"`) {
		t.Fatalf("expected session_id in output, got: %s", out)
	}
	if !strings.Contains(out, `"extra":"value"`) {
		t.Fatalf("expected extra attr in output, got: %s", out)
	}
	if _, ok := newSessionIDHandler(nil, "x").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when base is nil")
	}
}

func TestPrettyHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, slog.LevelInfo, false, FieldSessionID))
	logger = NewComponentLogger(logger, "resolver")
	logger.Info("match accepted", "movie", "The Matrix (1999)", "similarity", 100.0, FieldSessionID, "hidden")
	logger.Debug("dropped")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one line, got %q", out)
	}
	if !strings.Contains(out, " INFO resolver: match accepted") {
		t.Fatalf("unexpected prefix: %q", out)
	}
	if !strings.Contains(out, `movie="The Matrix (1999)"`) || !strings.Contains(out, "similarity=100") {
		t.Fatalf("missing attrs: %q", out)
	}
	if strings.Contains(out, "hidden") || strings.Contains(out, "component=") {
		t.Fatalf("hidden keys leaked: %q", out)
	}
}

func TestPrettyHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, slog.LevelInfo, false)).WithGroup("tmdb")
	logger.Info("request", "status", 401)
	if !strings.Contains(buf.String(), "tmdb.status=401") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesTime(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newJSONHandler(&buf, slog.LevelInfo, false)).Warn("slow")
	out := buf.String()
	if !strings.Contains(out, `"ts":"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("unexpected json line: %s", out)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	WarnWithContext(logger, "enrichment skipped", "enrichment_skipped", String(FieldImpact, "movie stays unenriched"))
	out := buf.String()
	for _, want := range []string{`"event_type":"enrichment_skipped"`, `"hint":"rerun with --verbose for request details"`, `"impact":"movie stays unenriched"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}
