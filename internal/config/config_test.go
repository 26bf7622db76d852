package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/go-ad-metrics/internal/synergy"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvAPIKey, "")
	c, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Replay.TopN != 10 || c.Replay.DefaultStep != -1 {
		t.Errorf("unexpected defaults: %+v", c.Replay)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[replay]\ntop_n = 3\n\n[database]\npath = \"/tmp/x.db\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Replay.TopN != 3 {
		t.Errorf("TopN: want 3, got %d", c.Replay.TopN)
	}
	if c.Replay.TotalEntries != synergy.SuggestionCount {
		t.Errorf("TotalEntries should keep its default, got %d", c.Replay.TotalEntries)
	}
	if c.Database.Path != "/tmp/x.db" {
		t.Errorf("Database.Path: %q", c.Database.Path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[database]\npath = \"/from/file.db\"\n\n[analyze]\napi_key = \"file-key\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDB, "/from/env.db")
	t.Setenv(EnvAPIKey, "env-key")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Database.Path != "/from/env.db" || c.Analyze.APIKey != "env-key" {
		t.Errorf("env should win: %+v %+v", c.Database, c.Analyze)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[replay\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	c := DefaultConfig()
	c.Replay.SynergyEntries = 2
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Replay.SynergyEntries != 2 || got.Analyze.Model != c.Analyze.Model {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero top n", func(c *Config) { c.Replay.TopN = 0 }},
		{"negative synergy entries", func(c *Config) { c.Replay.SynergyEntries = -1 }},
		{"zero total", func(c *Config) { c.Replay.TotalEntries = 0 }},
		{"synergy exceeds total", func(c *Config) { c.Replay.SynergyEntries = 11 }},
		{"zero max tokens", func(c *Config) { c.Analyze.MaxTokens = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ADMETRICS_TEST_VAR=hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMETRICS_TEST_VAR", "")
	os.Unsetenv("ADMETRICS_TEST_VAR")

	got := LoadEnv(filepath.Join(dir, "missing.env"), path)
	if got != path {
		t.Errorf("LoadEnv returned %q, want %q", got, path)
	}
	if v := os.Getenv("ADMETRICS_TEST_VAR"); v != "hello" {
		t.Errorf("variable not loaded: %q", v)
	}
}
