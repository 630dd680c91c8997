// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for courtside.
//
// Configuration lives in TOML with sensible defaults and environment variable
// overrides:
//   - ~/.courtside/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/courtside/courtside-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete courtside configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Region RegionConfig `toml:"region"`
	UI     UIConfig     `toml:"ui"`
}

// ServerConfig points at the assistant endpoint.
type ServerConfig struct {
	// URL is the assistant base URL.
	URL string `toml:"url"`
}

// RegionConfig is the pass-through context sent with every request. The
// assistant uses it to scope club searches and format times; the client
// never interprets it.
type RegionConfig struct {
	// Country is an ISO 3166-1 alpha-2 code, e.g. "ES".
	Country string `toml:"country"`
	// Language is a BCP 47 tag, e.g. "es" or "de-AT".
	Language string `toml:"language"`
	// Timezone is an IANA zone name, e.g. "Europe/Madrid".
	Timezone string `toml:"timezone"`
}

// UIConfig contains presentation options.
type UIConfig struct {
	// Theme selects the color theme: "auto", "dark", "light".
	Theme string `toml:"theme"`
	// Markdown enables markdown rendering of assistant replies.
	Markdown bool `toml:"markdown"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8000",
		},
		Region: RegionConfig{
			Language: "en",
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// configDirName is the dot directory under the user's home.
const configDirName = ".courtside"

// Dir returns the courtside data directory (~/.courtside), also used for the
// profile file, history database, and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir creates the data directory if it does not exist.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, layering it over the defaults and applying
// environment overrides. A missing file is not an error; a malformed file is.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides:
//
//	COURTSIDE_SERVER_URL  assistant base URL
//	COURTSIDE_LANGUAGE    response language
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COURTSIDE_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("COURTSIDE_LANGUAGE"); v != "" {
		c.Region.Language = v
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid server url: %q", c.Server.URL)
		}
	}
	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme: %q (want auto, dark, or light)", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to the given path atomically.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
