package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"poparch/internal/config"
)

var skipConfigLoad = map[string]string{"skipConfigLoad": "true"}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(
		newConfigInitCommand(ctx),
		newConfigValidateCommand(ctx),
		newConfigShowCommand(ctx),
		newConfigSetKeyCommand(ctx),
		newConfigLoggingCommand(ctx),
	)
	return configCmd
}

// targetConfigPath returns the explicit path (from --path or --config) or
// the default location.
func (c *commandContext) targetConfigPath(explicit string) (string, error) {
	target := strings.TrimSpace(explicit)
	if target == "" {
		target = strings.TrimSpace(c.configFlag)
	}
	if target == "" {
		return config.DefaultConfigPath()
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return expanded, nil
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: skipConfigLoad,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ctx.targetConfigPath(targetPath)
			if err != nil {
				return err
			}
			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			out.ok("Wrote sample configuration to %s", target)
			out.info("Set your TMDB API key with 'poparch config set-key' (or export TMDB_API_KEY) to fetch movie details.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file",
		Annotations: skipConfigLoad,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := newPrinter(cmd.OutOrStdout())
			out.info("Config path: %s", path)
			if !exists {
				out.info("Config file did not exist; defaults were used")
			}
			if !cfg.HasTMDBKey() {
				out.warn("No TMDB API key set; 'info' and 'update' cannot fetch details.")
			}
			out.ok("Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *ctx.config
			shown.TMDB.APIKey = maskSecret(shown.TMDB.APIKey)
			data, err := toml.Marshal(shown)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", ctx.configPath)
			_, err = out.Write(data)
			return err
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

func newConfigSetKeyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "set-key [api-key]",
		Short:       "Store the TMDB API key in the configuration file",
		Annotations: skipConfigLoad,
		Args:        cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Enter your TMDB API key: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no API key entered")
				}
				key = line
			}
			path, err := ctx.targetConfigPath("")
			if err != nil {
				return err
			}
			if err := config.SetAPIKey(path, key); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).ok("TMDB API key saved to %s", path)
			return nil
		},
	}
}

func newConfigLoggingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "logging <on|off>",
		Short:       "Turn file logging on or off",
		Annotations: skipConfigLoad,
		Args:        cobra.ExactArgs(1),
		ValidArgs:   []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "on", "true", "enable":
				enabled = true
			case "off", "false", "disable":
				enabled = false
			default:
				return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
			}
			path, err := ctx.targetConfigPath("")
			if err != nil {
				return err
			}
			if err := config.SetLoggingEnabled(path, enabled); err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			newPrinter(cmd.OutOrStdout()).ok("File logging %s.", state)
			return nil
		},
	}
}
