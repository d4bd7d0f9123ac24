package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"poparch/internal/config"
	"poparch/internal/library"
	"poparch/internal/logging"
	"poparch/internal/resolver"
	"poparch/internal/services"
	"poparch/internal/tmdb"
	"poparch/internal/workflow"
)

type commandContext struct {
	configFlag string
	verbose    bool
	assumeYes  bool

	config     *config.Config
	configPath string
	logSetup   *logging.Setup
	store      *library.Store
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// ensureConfig loads configuration and the invocation logger once.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, path, _, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
	}
	setup, err := logging.NewFromConfig(cfg, c.verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "init logging", "", err)
	}
	c.config = cfg
	c.configPath = path
	c.logSetup = setup
	setup.Logger.Debug("configuration loaded",
		logging.String("config_path", path),
		logging.String("data_dir", cfg.Paths.DataDir),
		logging.Bool("tmdb_key", cfg.HasTMDBKey()))
	return cfg, nil
}

func (c *commandContext) logger() *slog.Logger {
	if c.logSetup == nil || c.logSetup.Logger == nil {
		return logging.NewNop()
	}
	return c.logSetup.Logger
}

// commandLogger tags the invocation logger with the running command.
func (c *commandContext) commandLogger(cmd *cobra.Command) (context.Context, *slog.Logger) {
	ctx := services.WithCommand(cmd.Context(), cmd.Name())
	return ctx, logging.WithContext(ctx, c.logger())
}

func (c *commandContext) openStore() (*library.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	if c.config == nil {
		return nil, errors.New("configuration not loaded")
	}
	store, err := library.Open(c.config)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

func (c *commandContext) newResolver() *resolver.Resolver {
	cfg := c.config
	if cfg == nil {
		return resolver.New(resolver.Config{}, nil, c.logger())
	}
	rcfg := resolver.Config{
		APIKey:              cfg.TMDB.APIKey,
		SimilarityThreshold: cfg.Resolver.SimilarityThreshold,
		MaxCandidates:       cfg.Resolver.MaxCandidates,
	}
	if !cfg.HasTMDBKey() {
		return resolver.New(rcfg, nil, c.logger())
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(cfg.TMDBRequestTimeout()))
	if err != nil {
		c.logger().Warn("tmdb client unavailable", logging.Error(err))
		return resolver.New(rcfg, nil, c.logger())
	}
	return resolver.New(rcfg, client, c.logger())
}

func (c *commandContext) newUpdater(store *library.Store) *workflow.Updater {
	return workflow.NewUpdater(c.config, store, c.newResolver(), c.logger())
}

func (c *commandContext) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger().Warn("failed to close library", logging.Error(err))
		}
		c.store = nil
	}
	if c.logSetup != nil {
		_ = c.logSetup.Close()
		c.logSetup = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// userMessage renders err without the internal marker prefixes.
func userMessage(err error) string {
	var rerr *resolver.Error
	if errors.As(err, &rerr) {
		if rerr.Kind == resolver.KindNotConfigured {
			return fmt.Sprintf("%s; %v", rerr.Kind.Description(), rerr.Err)
		}
		return rerr.Kind.Description()
	}
	return err.Error()
}
