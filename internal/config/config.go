// Package config handles configuration loading and management for Maestro.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Maestro.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Brainstorm BrainstormConfig `mapstructure:"brainstorm"`
	Cluster    ClusterConfig    `mapstructure:"cluster"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Roster     RosterConfig     `mapstructure:"roster"`
	Store      StoreConfig      `mapstructure:"store"`
	TUI        TUIConfig        `mapstructure:"tui"`
	Log        LogConfig        `mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for the generative
// brainstormer.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// BrainstormConfig selects and tunes the candidate generator.
type BrainstormConfig struct {
	// Mode is "template" or "claude".
	Mode string `mapstructure:"mode"`
	// Branching caps candidates per thought.
	Branching int `mapstructure:"branching"`
	// Timeout bounds one brainstorm call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClusterConfig tunes the batch clustering passes.
type ClusterConfig struct {
	// Every triggers a pass after this many newly ingested items.
	Every int `mapstructure:"every"`
	// Eps is the cosine-distance neighborhood radius.
	Eps float64 `mapstructure:"eps"`
	// MinSamples is the density threshold for a core point.
	MinSamples int `mapstructure:"min_samples"`
}

// PlannerConfig tunes goal expansion.
type PlannerConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// RosterConfig locates the worker roster.
type RosterConfig struct {
	// Path points at a workers.yaml file. Empty uses the built-in roster.
	Path string `mapstructure:"path"`
}

// StoreConfig locates the item and plan database.
type StoreConfig struct {
	// Path points at the SQLite file. Empty uses the XDG data path.
	Path string `mapstructure:"path"`
	// Disabled turns persistence off entirely.
	Disabled bool `mapstructure:"disabled"`
}

// TUIConfig holds watch-view display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	// DebugPath points at the debug log file. Empty disables debug output.
	DebugPath string `mapstructure:"debug_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (MAESTRO_*, ANTHROPIC_API_KEY)
// 2. Project config (.maestro.yaml in current directory or parent)
// 3. User config (~/.config/maestro/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MAESTRO")

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "MAESTRO_MODEL")
	v.BindEnv("brainstorm.mode", "MAESTRO_BRAINSTORM_MODE")
	v.BindEnv("roster.path", "MAESTRO_ROSTER")
	v.BindEnv("store.path", "MAESTRO_DB")
	v.BindEnv("log.debug_path", "MAESTRO_DEBUG_LOG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
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

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("brainstorm.mode", cfg.Brainstorm.Mode)
	v.Set("brainstorm.branching", cfg.Brainstorm.Branching)
	v.Set("brainstorm.timeout", cfg.Brainstorm.Timeout.String())
	v.Set("cluster.every", cfg.Cluster.Every)
	v.Set("cluster.eps", cfg.Cluster.Eps)
	v.Set("cluster.min_samples", cfg.Cluster.MinSamples)
	v.Set("planner.max_depth", cfg.Planner.MaxDepth)
	v.Set("roster.path", cfg.Roster.Path)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.disabled", cfg.Store.Disabled)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("log.debug_path", cfg.Log.DebugPath)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("brainstorm.mode", "template")
	v.SetDefault("brainstorm.branching", 3)
	v.SetDefault("brainstorm.timeout", "30s")

	v.SetDefault("cluster.every", 10)
	v.SetDefault("cluster.eps", 0.35)
	v.SetDefault("cluster.min_samples", 2)

	v.SetDefault("planner.max_depth", 3)

	v.SetDefault("roster.path", "")

	v.SetDefault("store.path", "")
	v.SetDefault("store.disabled", false)

	v.SetDefault("tui.refresh_rate", "500ms")

	v.SetDefault("log.debug_path", "")
}

// getUserConfigDir returns the XDG config directory for Maestro.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maestro")
	}

	// Fall back to ~/.config/maestro
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maestro")
	}
	return filepath.Join(home, ".config", "maestro")
}

// findProjectConfig searches for .maestro.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maestro.yaml")
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

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Brainstorm: BrainstormConfig{
			Mode:      "template",
			Branching: 3,
			Timeout:   30 * time.Second,
		},
		Cluster: ClusterConfig{
			Every:      10,
			Eps:        0.35,
			MinSamples: 2,
		},
		Planner: PlannerConfig{
			MaxDepth: 3,
		},
		TUI: TUIConfig{
			RefreshRate: 500 * time.Millisecond,
		},
	}
}
