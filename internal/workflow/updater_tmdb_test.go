package workflow_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"poparch/internal/logging"
	"poparch/internal/resolver"
	"poparch/internal/testsupport"
	"poparch/internal/tmdb"
	"poparch/internal/workflow"
)

func TestUpdaterAgainstFakeTMDB(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t,
		testsupport.Movie(1, "Alien", 1979, "Horror", "Science Fiction"),
		testsupport.Movie(2, "Heat", 1995, "Crime"),
	)
	cfg := testsupport.NewConfig(t,
		testsupport.WithTMDBKey("fake-key"),
		testsupport.WithTMDBBaseURL(fake.URL()),
		testsupport.WithFileLogging(),
	)
	store := testsupport.MustOpenStore(t, cfg)
	seed(t, store, "Alien 1979", "Heat 1995", "Unknown Film 2001")

	setup, err := logging.NewFromConfig(cfg, false, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}

	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(cfg.TMDBRequestTimeout()))
	if err != nil {
		t.Fatalf("tmdb.New: %v", err)
	}
	res := resolver.New(resolver.Config{APIKey: cfg.TMDB.APIKey}, client, setup.Logger)

	summary, err := workflow.NewUpdater(cfg, store, res, setup.Logger).Run(context.Background(), workflow.UpdateOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := setup.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if summary.Updated != 2 || summary.Failed() != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Failures[0].Movie != "Unknown Film (2001)" || summary.Failures[0].Kind != "not_found" {
		t.Fatalf("unexpected failure %+v", summary.Failures[0])
	}

	alien, err := store.Get(context.Background(), "Alien", 1979)
	if err != nil || alien == nil {
		t.Fatalf("Get: %v %v", alien, err)
	}
	if alien.Director != "Director of Alien" || !strings.Contains(alien.Genre, "Horror") {
		t.Fatalf("enrichment not stored: %+v", alien.Enrichment)
	}

	data, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"metadata update finished", "update_item_failed", "Unknown Film (2001)"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log missing %q:\n%s", want, data)
		}
	}
}
