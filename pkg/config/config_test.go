package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for a missing file")
	}
	want := Default()
	if cfg.Fetch.UserAgent != want.Fetch.UserAgent || cfg.Cache.Capacity != want.Cache.Capacity {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `
[cache]
capacity = 50

[logging]
level = "debug"
`)

	cfg, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("exists = false for a present file")
	}
	if cfg.Cache.Capacity != 50 {
		t.Errorf("Cache.Capacity = %d", cfg.Cache.Capacity)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Fetch.MaxRetries != 2 || cfg.Server.Bind != "127.0.0.1:8585" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero cache capacity", "[cache]\ncapacity = 0\n"},
		{"negative retries", "[fetch]\nmax_retries = -1\n"},
		{"unknown log level", "[logging]\nlevel = \"verbose\"\n"},
		{"redis enabled without addr", "[redis]\nenabled = true\naddr = \"\"\n"},
		{"malformed toml", "[cache\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted an invalid configuration")
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal([]byte(sampleConfig), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	want := Default()
	if cfg.Fetch != want.Fetch || cfg.Cache != want.Cache || cfg.Logging != want.Logging ||
		cfg.Server != want.Server || cfg.Redis != want.Redis || cfg.Local != want.Local {
		t.Errorf("sample config drifted from defaults:\n%+v\n%+v", cfg, want)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[fetch]") {
		t.Error("sample content missing")
	}

	if err := WriteSample(path); err == nil {
		t.Error("WriteSample overwrote an existing file")
	}
}
