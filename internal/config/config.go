// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for buddy.
//
// Configuration sources, in order of precedence:
//   - BUDDY_* environment variables
//   - ~/.buddy/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete buddy configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// ServerConfig describes how to reach the Onboarding Buddy backend.
type ServerConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url"`
	// APIKey is the model provider credential passed through to the backend
	// at ingestion time. Never logged.
	APIKey string `toml:"api_key"`
	// TimeoutSecs bounds each request. The backend specifies no timeout of
	// its own; without a bound a lost connection would leave the client
	// stuck in a sending state forever.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme selects the color palette: "auto", "dark", or "light".
	Theme string `toml:"theme"`
	// CodeStyle is the chroma style name for highlighted code blocks.
	CodeStyle string `toml:"code_style"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:8000",
			TimeoutSecs: 120,
		},
		UI: UIConfig{
			Theme:     "auto",
			CodeStyle: "monokai",
		},
	}
}

// Dir returns the buddy state directory (~/.buddy), creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".buddy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, applies env overrides, and validates. A missing
// file is not an error; defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its default path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// applyEnvOverrides applies BUDDY_* environment variables on top of the
// loaded file.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("BUDDY_SERVER_URL"); url != "" {
		c.Server.URL = url
	}
	if key := os.Getenv("BUDDY_API_KEY"); key != "" {
		c.Server.APIKey = key
	}
	if secs := os.Getenv("BUDDY_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Server.TimeoutSecs = n
		}
	}
	if theme := os.Getenv("BUDDY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url %q is not a valid http(s) URL", c.Server.URL)
	}
	if c.Server.TimeoutSecs <= 0 {
		return fmt.Errorf("server.timeout_secs must be positive, got %d", c.Server.TimeoutSecs)
	}
	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be auto, dark, or light, got %q", c.UI.Theme)
	}
	return nil
}
