// Package config handles configuration loading and validation for noticeboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig        `yaml:"server"`
	Database DatabaseConfig      `yaml:"database"`
	Roles    map[string][]string `yaml:"roles"`
	Users    map[string][]string `yaml:"users"`
	Notices  []NoticeConfig      `yaml:"notices"`
	DataDir  string              `yaml:"-"` // set by caller, not from config file
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Secret signs anti-forgery tokens. Empty means a random secret is
	// generated at startup, invalidating tokens across restarts.
	Secret        string `yaml:"secret"`
	TokenLifetime string `yaml:"token_lifetime"`
	// DismissRate limits dismiss requests per actor per second.
	DismissRate float64 `yaml:"dismiss_rate"`
	// DismissBurst is the rate limiter burst size.
	DismissBurst int `yaml:"dismiss_burst"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout_ms"`
}

// NoticeConfig declares a single notice.
type NoticeConfig struct {
	ID string `yaml:"id"`
	// Content is pre-sanitized HTML injected verbatim. Mutually exclusive
	// with ContentMD.
	Content string `yaml:"content"`
	// ContentMD is markdown rendered to HTML and sanitized at load time.
	ContentMD   string   `yaml:"content_md"`
	Dismissible *bool    `yaml:"dismissible"` // nil = true
	Scope       string   `yaml:"scope"`
	Style       string   `yaml:"style"`
	Capability  string   `yaml:"capability"`
	KeyPrefix   string   `yaml:"key_prefix"`
	Screens     []string `yaml:"screens"`
	// Rule is an optional expr visibility expression with env
	// {actor, roles, screen}.
	Rule string `yaml:"rule"`
}

// IsDismissible resolves the tri-state dismissible flag; unset means true.
func (n NoticeConfig) IsDismissible() bool {
	return n.Dismissible == nil || *n.Dismissible
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8612",
			TokenLifetime: "12h",
			DismissRate:   5,
			DismissBurst:  10,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Roles: map[string][]string{},
		Users: map[string][]string{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if strings.TrimSpace(c.Server.TokenLifetime) == "" {
		c.Server.TokenLifetime = defaults.Server.TokenLifetime
	}
	if c.Server.DismissRate <= 0 {
		c.Server.DismissRate = defaults.Server.DismissRate
	}
	if c.Server.DismissBurst <= 0 {
		c.Server.DismissBurst = defaults.Server.DismissBurst
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Roles == nil {
		c.Roles = map[string][]string{}
	}
	if c.Users == nil {
		c.Users = map[string][]string{}
	}
}

// TokenLifetime parses the configured token lifetime.
func (c *Config) TokenLifetime() (time.Duration, error) {
	raw := strings.TrimSpace(c.Server.TokenLifetime)
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("server.token_lifetime: invalid duration %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("server.token_lifetime: duration must be >= 0")
	}

	return d, nil
}

// DatabaseFile returns the path to the SQLite database file.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "noticeboard.db")
}
