package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. The TMDB API key is
// deliberately optional.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	parsed, err := url.Parse(c.TMDB.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("tmdb.base_url %q must be an absolute URL", c.TMDB.BaseURL)
	}
	if c.TMDB.RequestTimeout < 1 || c.TMDB.RequestTimeout > maxTMDBRequestTimeoutSeconds {
		return fmt.Errorf("tmdb.request_timeout must be between 1 and %d seconds", maxTMDBRequestTimeoutSeconds)
	}
	if c.TMDB.RequestDelayMS < 0 || c.TMDB.RequestDelayMS > maxTMDBRequestDelayMS {
		return fmt.Errorf("tmdb.request_delay_ms must be between 0 and %d", maxTMDBRequestDelayMS)
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.SimilarityThreshold <= 0 || c.Resolver.SimilarityThreshold > 100 {
		return errors.New("resolver.similarity_threshold must be between 0 and 100")
	}
	if c.Resolver.MaxCandidates < minCandidatesLimit || c.Resolver.MaxCandidates > maxCandidatesLimit {
		return fmt.Errorf("resolver.max_candidates must be between %d and %d", minCandidatesLimit, maxCandidatesLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 1 {
		return errors.New("logging.max_size_mb must be at least 1")
	}
	if c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must be zero or positive")
	}
	if c.Logging.MaxAgeDays < 0 {
		return errors.New("logging.max_age_days must be zero or positive")
	}
	return nil
}
