// Package config loads the TOML configuration file. Every field has a
// working default; a missing file yields a fully usable configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Fetch configures the upstream HTTP layer.
type Fetch struct {
	UserAgent                string `toml:"user_agent"`
	MaxRetries               int    `toml:"max_retries"`
	RegistryTimeoutSeconds   int    `toml:"registry_timeout_seconds"`
	OccurrenceTimeoutSeconds int    `toml:"occurrence_timeout_seconds"`
	DefaultTimeoutSeconds    int    `toml:"default_timeout_seconds"`
	TransientBackoffMillis   int    `toml:"transient_backoff_ms"`
	PaceIntervalMillis       int    `toml:"pace_interval_ms"`
}

// Cache configures the in-memory response cache.
type Cache struct {
	Capacity   int `toml:"capacity"`
	TTLSeconds int `toml:"ttl_seconds"`
}

// Redis configures the optional second cache tier.
type Redis struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Upstreams overrides the upstream endpoints, mainly for testing against
// mirrors.
type Upstreams struct {
	RegistryBaseURL   string `toml:"registry_base_url"`
	OccurrenceBaseURL string `toml:"occurrence_base_url"`
	WikiEndpoint      string `toml:"wiki_endpoint"`
}

// Logging configures log output.
type Logging struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Server configures the serve command.
type Server struct {
	Bind string `toml:"bind"`
}

// Local configures the user-species store.
type Local struct {
	Path string `toml:"path"`
}

// Config encapsulates all configuration values.
type Config struct {
	Fetch     Fetch     `toml:"fetch"`
	Cache     Cache     `toml:"cache"`
	Redis     Redis     `toml:"redis"`
	Upstreams Upstreams `toml:"upstreams"`
	Logging   Logging   `toml:"logging"`
	Server    Server    `toml:"server"`
	Local     Local     `toml:"local"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fetch: Fetch{
			UserAgent:                "MarineScopeApp/1.0 (https://github.com/marinescope)",
			MaxRetries:               2,
			RegistryTimeoutSeconds:   10,
			OccurrenceTimeoutSeconds: 15,
			DefaultTimeoutSeconds:    8,
			TransientBackoffMillis:   500,
			PaceIntervalMillis:       0,
		},
		Cache: Cache{
			Capacity:   2000,
			TTLSeconds: 3600,
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Logging: Logging{
			Level:   "info",
			Console: true,
		},
		Server: Server{
			Bind: "127.0.0.1:8585",
		},
		Local: Local{
			Path: "~/.local/share/marinescope/user_species.json",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marinescope/config.toml")
}

// Load parses and validates a configuration file. An empty path selects
// the default location; a missing file yields the defaults. The second
// return value reports whether a file was actually read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Local.Path, err = expandPath(cfg.Local.Path); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Fetch.UserAgent == "" {
		return errors.New("fetch.user_agent must not be empty")
	}
	if c.Fetch.MaxRetries < 0 {
		return errors.New("fetch.max_retries must not be negative")
	}
	if c.Cache.Capacity <= 0 {
		return errors.New("cache.capacity must be positive")
	}
	if c.Cache.TTLSeconds <= 0 {
		return errors.New("cache.ttl_seconds must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr must be set when redis is enabled")
	}
	if c.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// WriteSample writes the annotated sample configuration to path, refusing
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
