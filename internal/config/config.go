// Package config handles configuration loading for procmesh.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for procmesh.
type Config struct {
	Definitions DefinitionsConfig `mapstructure:"definitions"`
	Engine      EngineConfig      `mapstructure:"engine"`
	History     HistoryConfig     `mapstructure:"history"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DefinitionsConfig locates the process-tree definitions.
type DefinitionsConfig struct {
	// Path is the definitions YAML file.
	Path string `mapstructure:"path"`
}

// EngineConfig holds orchestration defaults.
type EngineConfig struct {
	// ChildTimeout bounds each child's execution. Zero means unlimited.
	ChildTimeout time.Duration `mapstructure:"child_timeout"`
	// NodeDeadline bounds a whole composite run. Zero means unlimited.
	NodeDeadline time.Duration `mapstructure:"node_deadline"`
	// FailFast stops a run at the first child failure.
	FailFast bool `mapstructure:"fail_fast"`
}

// HistoryConfig holds run-history persistence settings.
type HistoryConfig struct {
	// Enabled toggles recording of composite runs.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database file. Empty selects the default
	// project-local path.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLog is the path of the orchestrator debug log.
	// Empty disables it.
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PROCMESH_*)
// 2. Project config (.procmesh.yaml in current directory or a parent)
// 3. User config (~/.config/procmesh/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PROCMESH")
	v.AutomaticEnv()
	v.BindEnv("definitions.path", "PROCMESH_DEFINITIONS")
	v.BindEnv("history.path", "PROCMESH_HISTORY_DB")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("definitions.path", "process-tree.yaml")
	v.SetDefault("engine.child_timeout", "0s")
	v.SetDefault("engine.node_deadline", "0s")
	v.SetDefault("engine.fail_fast", false)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for procmesh.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "procmesh")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "procmesh")
	}
	return filepath.Join(home, ".config", "procmesh")
}

// findProjectConfig searches for .procmesh.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".procmesh.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
