package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"poparch/internal/testsupport"
	"poparch/internal/tmdb"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	tmdb       *testsupport.FakeTMDB
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// setupCLITestEnv isolates HOME, XDG directories and the working directory,
// then writes a config pointing at a fake TMDB server.
func setupCLITestEnv(t *testing.T, apiKey string, movies ...tmdb.MovieDetails) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	for _, name := range []string{"HOME", "XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME"} {
		dir := filepath.Join(base, strings.ToLower(name))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		t.Setenv(name, dir)
	}
	t.Setenv("TMDB_API_KEY", "")
	t.Chdir(base)

	fake := testsupport.NewFakeTMDB(t, movies...)
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		tmdb:       fake,
	}
	env.writeConfig(t, apiKey, "")
	return env
}

func (e *cliTestEnv) writeConfig(t *testing.T, apiKey, extra string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[tmdb]
api_key = %q
base_url = %q
request_timeout = 1
request_delay_ms = 0
%s`, filepath.Join(e.baseDir, "data"), filepath.Join(e.baseDir, "logs"), apiKey, e.tmdb.URL(), extra)
	testsupport.WriteFile(t, e.configPath, content)
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLI(t, stdin, append([]string{"--config", e.configPath}, args...)...)
}

// mustRun fails the test when the command returns an error.
func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := e.run(t, "", args...)
	if res.err != nil {
		t.Fatalf("poparch %s: %v\nstderr: %s", strings.Join(args, " "), res.err, res.stderr)
	}
	return res.stdout
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func assertNotContains(t *testing.T, output, unwanted string) {
	t.Helper()
	if strings.Contains(output, unwanted) {
		t.Fatalf("expected output not to contain %q, got:\n%s", unwanted, output)
	}
}

func TestAddReportsDuplicates(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out := env.mustRun(t, "add", "the kid 1921")
	assertContains(t, out, "Movie 'The Kid (1921)' added successfully.")

	out = env.mustRun(t, "add", "The Kid", "(1921)")
	assertContains(t, out, "Movie 'The Kid (1921)' already exists in the archive.")
}

func TestAddRejectsInvalidFormat(t *testing.T) {
	env := setupCLITestEnv(t, "")

	res := env.run(t, "", "add", "Invalid Movie Name Without Year")
	if res.err == nil {
		t.Fatal("expected an error for a name without year")
	}
	assertContains(t, res.stderr, "Error: invalid movie format")
	assertNotContains(t, res.stdout, "added successfully")
}

func TestDeleteThenReAdd(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Naked (1993) [BluRay] [1080p]")

	out := env.mustRun(t, "--yes", "delete", "naked 1993")
	assertContains(t, out, "Movie 'Naked (1993)' was successfully deleted.")

	out = env.mustRun(t, "--yes", "delete", "Naked (1993)")
	assertContains(t, out, "Movie 'Naked (1993)' not found in the archive.")

	out = env.mustRun(t, "add", "Naked 1993")
	assertContains(t, out, "added successfully")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Alien 1979")

	res := env.run(t, "n\n", "delete", "Alien 1979")
	if res.err != nil {
		t.Fatalf("delete: %v", res.err)
	}
	assertContains(t, res.stdout, "Deletion cancelled.")
	assertContains(t, env.mustRun(t, "list"), "Alien")
}

func TestYearAndDecadeListings(t *testing.T) {
	env := setupCLITestEnv(t, "")

	res := env.run(t, "", "decade", "1985")
	if res.err == nil {
		t.Fatal("expected decade 1985 to be rejected")
	}
	assertContains(t, res.stderr, "decade must be a valid start of a decade (e.g., 1980, 1990, 2020)")

	assertContains(t, env.mustRun(t, "decade", "1990"), "No movies found for the 1990s decade.")
	assertContains(t, env.mustRun(t, "year", "1995"), "No movies found for the year 1995.")

	env.mustRun(t, "add", "Heat 1995")
	env.mustRun(t, "add", "Alien 1979")

	out := env.mustRun(t, "decade", "1990")
	assertContains(t, out, "Movies from the 1990s:")
	assertContains(t, out, "Heat")
	assertNotContains(t, out, "Alien")

	out = env.mustRun(t, "year", "1979")
	assertContains(t, out, "Movies from 1979:")
	assertContains(t, out, "Alien")
}

func TestWatchRateSearchAndRandom(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Alien 1979")

	assertContains(t, env.mustRun(t, "random", "--unwatched"), "-> Alien (1979)")
	assertContains(t, env.mustRun(t, "watch", "alien 1979"), "Movie 'Alien (1979)' marked as watched.")
	assertContains(t, env.mustRun(t, "rate", "Alien 1979", "8"), "Rated 'Alien (1979)' 8/10.")

	out := env.mustRun(t, "search", "--watched", "--min-rating", "7")
	assertContains(t, out, "Found results:")
	assertContains(t, out, "Alien")

	assertContains(t, env.mustRun(t, "search", "--unwatched"), "No movie found with that query.")
	assertContains(t, env.mustRun(t, "random"), "Today's random movie suggestion:")
	assertContains(t, env.mustRun(t, "random", "--unwatched"), "Every movie in the archive has been watched.")

	res := env.run(t, "", "rate", "Alien 1979", "11")
	if res.err == nil {
		t.Fatal("expected rating 11 to be rejected")
	}
	assertContains(t, env.mustRun(t, "watch", "Brazil 1985"), "Movie 'Brazil (1985)' not found in the archive.")
}

func TestEmptyArchiveMessages(t *testing.T) {
	env := setupCLITestEnv(t, "")

	assertContains(t, env.mustRun(t, "random"), "The archive is empty. Add some movies first.")
	assertContains(t, env.mustRun(t, "list"), "The archive is empty.")
	assertContains(t, env.mustRun(t, "stats"), "The archive is empty.")
	assertContains(t, env.mustRun(t, "genre"), "No genres found in the database.")
	assertContains(t, env.mustRun(t, "info", "Alien"), "Movie 'Alien' not found in the archive.")
}

func TestInfoFetchesDetailsOnce(t *testing.T) {
	env := setupCLITestEnv(t, "test-key",
		testsupport.Movie(1, "Alien", 1979, "Horror", "Science Fiction"),
	)
	env.tmdb.APIKey = "test-key"
	env.mustRun(t, "add", "Alien 1979")

	out := env.mustRun(t, "info", "alien")
	assertContains(t, out, "Fetching details from TMDb API...")
	assertContains(t, out, "Director of Alien")
	assertContains(t, out, "Horror")
	assertContains(t, out, "1h 40m")

	searches, _ := env.tmdb.Calls()
	out = env.mustRun(t, "info", "Alien (1979)")
	assertNotContains(t, out, "Fetching details")
	assertContains(t, out, "Director of Alien")
	if again, _ := env.tmdb.Calls(); again != searches {
		t.Fatalf("expected no new searches, got %d then %d", searches, again)
	}
}

func TestInfoWithoutKeyStaysOffline(t *testing.T) {
	env := setupCLITestEnv(t, "", testsupport.Movie(1, "Alien", 1979))
	env.mustRun(t, "add", "Alien 1979")

	out := env.mustRun(t, "info", "Alien 1979")
	assertContains(t, out, "TMDB API key not configured")
	assertContains(t, out, "Alien")
	if searches, details := env.tmdb.Calls(); searches+details != 0 {
		t.Fatalf("expected no TMDB traffic, got %d searches and %d details", searches, details)
	}
}

func TestUpdateReportsPerItemTimeout(t *testing.T) {
	env := setupCLITestEnv(t, "test-key",
		testsupport.Movie(1, "Alien", 1979, "Horror"),
		testsupport.Movie(2, "Brazil", 1985, "Comedy"),
		testsupport.Movie(3, "Casablanca", 1942, "Drama"),
	)
	env.tmdb.Delay(2, 3*time.Second)
	for _, name := range []string{"Alien 1979", "Brazil 1985", "Casablanca 1942"} {
		env.mustRun(t, "add", name)
	}

	res := env.run(t, "", "update")
	if res.err != nil {
		t.Fatalf("update should succeed despite per-item failures: %v\nstderr: %s", res.err, res.stderr)
	}
	assertContains(t, res.stdout, "Update Summary")
	assertContains(t, res.stdout, "Successfully updated: 2")
	assertContains(t, res.stdout, "Failed: 1")
	assertContains(t, res.stdout, "timeout: 1")
	assertContains(t, res.stdout, "Brazil (1985)")

	// Only Brazil is still missing details.
	env.tmdb.Delay(2, 0)
	out := env.mustRun(t, "update")
	assertContains(t, out, "Successfully updated: 1")
	assertContains(t, env.mustRun(t, "update"), "All movies already have details.")
}

func TestUpdateRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Alien 1979")

	res := env.run(t, "", "update")
	if res.err == nil {
		t.Fatal("expected update without an API key to fail")
	}
	assertContains(t, res.stderr, "TMDB API key not configured; set one with 'poparch config set-key'")
}

func TestGenreMenu(t *testing.T) {
	env := setupCLITestEnv(t, "test-key",
		testsupport.Movie(1, "Alien", 1979, "Horror"),
		testsupport.Movie(2, "Heat", 1995, "Horror"),
	)
	env.mustRun(t, "add", "Alien 1979")
	env.mustRun(t, "add", "Heat 1995")
	env.mustRun(t, "update")

	res := env.run(t, "abc\n", "genre")
	if res.err != nil {
		t.Fatalf("genre: %v", res.err)
	}
	assertContains(t, res.stdout, "Please choose a genre")
	assertContains(t, res.stdout, "Invalid input. Please enter a number.")

	res = env.run(t, "7\n", "genre")
	if res.err != nil {
		t.Fatalf("genre: %v", res.err)
	}
	assertContains(t, res.stdout, "Invalid choice. Please enter a valid number.")

	res = env.run(t, "1\n", "genre")
	if res.err != nil {
		t.Fatalf("genre: %v", res.err)
	}
	assertContains(t, res.stdout, "Movies matching genre 'Horror'")
	assertContains(t, res.stdout, "Heat")

	assertContains(t, env.mustRun(t, "genre", "comedy"), "No movies found for the genre 'comedy'.")
}

func TestScanImportAndExport(t *testing.T) {
	env := setupCLITestEnv(t, "")
	root := filepath.Join(env.baseDir, "movies")
	testsupport.MakeDirs(t, root, "Alien (1979)", "Heat (1995) [1080p]", "not a movie", ".hidden (2000)")

	res := env.run(t, "y\n", "scan", root)
	if res.err != nil {
		t.Fatalf("scan: %v", res.err)
	}
	assertContains(t, res.stdout, "The following movies were found:")
	assertContains(t, res.stdout, "Do you want to add these movies to the archive?")
	assertContains(t, res.stdout, "2 new movies added successfully.")

	empty := filepath.Join(env.baseDir, "empty")
	testsupport.MakeDirs(t, empty, "random folder")
	assertContains(t, env.mustRun(t, "scan", empty), "No valid movie folders found in this directory.")

	csvPath := filepath.Join(env.baseDir, "list.csv")
	testsupport.WriteFile(t, csvPath, "name\nThe Kid 1921\nAlien (1979)\nNo Year Here\n")
	out := env.mustRun(t, "import", csvPath)
	assertContains(t, out, "1 new movies imported successfully.")
	assertContains(t, out, "1 already in the archive.")
	assertContains(t, out, "No Year Here")

	headerOnly := filepath.Join(env.baseDir, "header.csv")
	testsupport.WriteFile(t, headerOnly, "name\n")
	assertContains(t, env.mustRun(t, "import", headerOnly), "No movies found to import in the CSV file.")

	jsonPath := filepath.Join(env.baseDir, "export.json")
	assertContains(t, env.mustRun(t, "export", jsonPath), "Exported 3 movies")
	data := testsupport.ReadFile(t, jsonPath)
	assertContains(t, data, `"title": "The Kid"`)

	csvOut := filepath.Join(env.baseDir, "export.txt")
	env.mustRun(t, "export", "--format", "csv", csvOut)
	assertContains(t, testsupport.ReadFile(t, csvOut), "Heat (1995)")
}

func TestClearTakesBackup(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Alien 1979")

	out := env.mustRun(t, "--yes", "clear")
	assertContains(t, out, "Archive cleared: 1 movies removed.")
	matches, err := filepath.Glob(filepath.Join(env.baseDir, "data", "poparch-backup-*.db"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one backup file, got %v (err %v)", matches, err)
	}
	assertContains(t, env.mustRun(t, "list"), "The archive is empty.")
}

func TestStatsSummary(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.mustRun(t, "add", "Alien 1979")
	env.mustRun(t, "add", "Heat 1995")
	env.mustRun(t, "watch", "Heat 1995")
	env.mustRun(t, "rate", "Heat 1995", "9")

	out := env.mustRun(t, "stats")
	assertContains(t, out, "Archive statistics")
	assertContains(t, out, "1 (50")
	assertContains(t, out, "1970s")
	assertContains(t, out, "Your ratings")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	res := runCLI(t, "", "config", "init", "--path", target)
	if res.err != nil {
		t.Fatalf("config init: %v", res.err)
	}
	assertContains(t, res.stdout, "Wrote sample configuration to "+target)

	res = runCLI(t, "", "config", "init", "--path", target)
	if res.err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	assertContains(t, res.stderr, "already exists")

	res = runCLI(t, "", "--config", target, "config", "validate")
	if res.err != nil {
		t.Fatalf("config validate: %v\n%s", res.err, res.stderr)
	}
	assertContains(t, res.stdout, "Configuration valid")
	assertContains(t, res.stdout, "No TMDB API key set")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	env := setupCLITestEnv(t, "")
	env.writeConfig(t, "", "\n[logging]\nformat = \"xml\"\n")

	res := env.run(t, "", "config", "validate")
	if res.err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, res.stderr, "logging.format")

	res = env.run(t, "", "list")
	if res.err == nil {
		t.Fatal("expected commands to fail on invalid config")
	}
}

func TestConfigSetKeyAndShow(t *testing.T) {
	env := setupCLITestEnv(t, "")

	assertContains(t, env.mustRun(t, "config", "set-key", "abcdef123456"), "TMDB API key saved")

	out := env.mustRun(t, "config", "show")
	assertContains(t, out, "********3456")
	assertNotContains(t, out, "abcdef123456")
	assertContains(t, out, env.tmdb.URL())
}

func TestLoggingToggleAndClear(t *testing.T) {
	env := setupCLITestEnv(t, "")

	assertContains(t, env.mustRun(t, "logs", "path"), "File logging is disabled")
	assertContains(t, env.mustRun(t, "config", "logging", "on"), "File logging enabled.")

	env.mustRun(t, "add", "Alien 1979")
	logPath := filepath.Join(env.baseDir, "logs", "poparch.log")
	assertContains(t, testsupport.ReadFile(t, logPath), "movie added")

	assertContains(t, env.mustRun(t, "logs", "clear"), "Cleared 1 log file(s).")
	if got := testsupport.ReadFile(t, logPath); got != "" {
		t.Fatalf("expected empty log after clear, got %q", got)
	}

	res := env.run(t, "", "config", "logging", "maybe")
	if res.err == nil {
		t.Fatal("expected invalid logging toggle to fail")
	}
}

func TestLogsShowPrintsTail(t *testing.T) {
	env := setupCLITestEnv(t, "")
	assertContains(t, env.mustRun(t, "logs", "show"), "No log entries")

	env.mustRun(t, "config", "logging", "on")
	env.mustRun(t, "add", "Alien 1979")
	env.mustRun(t, "add", "Heat 1995")

	out := env.mustRun(t, "logs", "show", "-n", "1")
	assertContains(t, out, "Heat (1995)")
	assertNotContains(t, out, "Alien (1979)")
}
