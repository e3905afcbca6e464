package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procmesh/procmesh/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show effective configuration",
	Long: `Display the merged procmesh configuration.

Without arguments, displays every configuration value.
With one argument (key), displays the value for that key.

Values come from built-in defaults, the user config at
~/.config/procmesh/config.yaml, a project .procmesh.yaml, and
PROCMESH_* environment variables, in rising precedence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if len(args) == 0 {
			displayAllConfig(cfg)
			return nil
		}
		return displayConfigKey(cfg, args[0])
	},
}

// configKeys lists every displayable key in output order.
var configKeys = []string{
	"definitions.path",
	"engine.child_timeout",
	"engine.node_deadline",
	"engine.fail_fast",
	"history.enabled",
	"history.path",
	"logging.debug_log",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Printf("%s: %s\n", key, value)
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) error {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "definitions.path":
		return cfg.Definitions.Path, nil
	case "engine.child_timeout":
		return cfg.Engine.ChildTimeout.String(), nil
	case "engine.node_deadline":
		return cfg.Engine.NodeDeadline.String(), nil
	case "engine.fail_fast":
		return strconv.FormatBool(cfg.Engine.FailFast), nil
	case "history.enabled":
		return strconv.FormatBool(cfg.History.Enabled), nil
	case "history.path":
		if cfg.History.Path == "" {
			return "(default)", nil
		}
		return cfg.History.Path, nil
	case "logging.debug_log":
		if cfg.Logging.DebugLog == "" {
			return "(not set)", nil
		}
		return cfg.Logging.DebugLog, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}
