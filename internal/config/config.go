// Package config loads admetrics settings from ~/.admetrics/config.toml,
// .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/pable/go-ad-metrics/internal/synergy"
)

// Environment variables that override file values.
const (
	EnvDB     = "ADMETRICS_DB"
	EnvAPIKey = "ANTHROPIC_API_KEY"
)

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Replay   ReplayConfig   `toml:"replay"`
	Analyze  AnalyzeConfig  `toml:"analyze"`
}

// DatabaseConfig locates the snapshot store.
type DatabaseConfig struct {
	Path string `toml:"path"` // empty means ~/.admetrics/metrics.db
}

// ReplayConfig sizes the replay and suggestion lists.
type ReplayConfig struct {
	DefaultStep    int `toml:"default_step"`    // -1 = final state
	TopN           int `toml:"top_n"`           // pool-wide pairs and abilities
	SynergyEntries int `toml:"synergy_entries"` // max synergy-ranked suggestions
	TotalEntries   int `toml:"total_entries"`   // suggestion list length
}

// AnalyzeConfig configures the LLM analysis command.
type AnalyzeConfig struct {
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	MaxTokens int64  `toml:"max_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Replay: ReplayConfig{
			DefaultStep:    -1,
			TopN:           10,
			SynergyEntries: synergy.MaxSynergySuggestions,
			TotalEntries:   synergy.SuggestionCount,
		},
		Analyze: AnalyzeConfig{
			Model:     "claude-sonnet-4-5",
			MaxTokens: 2048,
		},
	}
}

// Dir returns ~/.admetrics.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".admetrics"), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path, or the default path when empty.
// A missing file yields the defaults. Environment overrides are applied.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// Decode over the defaults so omitted keys keep their default values.
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides file values with ADMETRICS_DB and ANTHROPIC_API_KEY.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Analyze.APIKey = v
	}
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Replay.TopN <= 0 {
		return fmt.Errorf("replay.top_n must be positive, got %d", c.Replay.TopN)
	}
	if c.Replay.SynergyEntries <= 0 {
		return fmt.Errorf("replay.synergy_entries must be positive, got %d", c.Replay.SynergyEntries)
	}
	if c.Replay.TotalEntries <= 0 {
		return fmt.Errorf("replay.total_entries must be positive, got %d", c.Replay.TotalEntries)
	}
	if c.Replay.SynergyEntries > c.Replay.TotalEntries {
		return fmt.Errorf("replay.synergy_entries (%d) exceeds replay.total_entries (%d)",
			c.Replay.SynergyEntries, c.Replay.TotalEntries)
	}
	if c.Analyze.MaxTokens <= 0 {
		return fmt.Errorf("analyze.max_tokens must be positive, got %d", c.Analyze.MaxTokens)
	}
	return nil
}

// LoadEnv loads the first .env file found among paths and returns its path,
// or "" when none exists. Variables already set in the environment win.
func LoadEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env"}
		if dir, err := Dir(); err == nil {
			paths = append(paths, filepath.Join(dir, ".env"))
		}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
