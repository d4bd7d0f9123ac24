package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appName                      = "poparch"
	configFileName               = "config.toml"
	projectConfigFileName        = "poparch.toml"
	databaseFileName             = "poparch.db"
	logFileName                  = "poparch.log"
	updateLockFileName           = "update.lock"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBRequestTimeout    = 10
	defaultTMDBRequestDelayMS    = 250
	defaultSimilarityThreshold   = 60.0
	defaultMaxCandidates         = 5
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogMaxSizeMB          = 5
	defaultLogMaxBackups         = 3
	defaultLogMaxAgeDays         = 30
	maxCandidatesLimit           = 5
	minCandidatesLimit           = 2
	maxTMDBRequestTimeoutSeconds = 120
	maxTMDBRequestDelayMS        = 60_000
	defaultLoggingEnabled        = false
	defaultLogCompress           = false
)

func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

func defaultLogDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir(),
			LogDir:  defaultLogDir(),
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestTimeout: defaultTMDBRequestTimeout,
			RequestDelayMS: defaultTMDBRequestDelayMS,
		},
		Resolver: Resolver{
			SimilarityThreshold: defaultSimilarityThreshold,
			MaxCandidates:       defaultMaxCandidates,
		},
		Logging: Logging{
			Enabled:    defaultLoggingEnabled,
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   defaultLogCompress,
		},
	}
}
