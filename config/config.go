// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings. Every field has a default, so an absent or
// partial file is fine.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Stdin  StdinConfig  `yaml:"stdin"`
	Table  TableConfig  `yaml:"table"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Log    LogConfig    `yaml:"log"`

	// Theme is light, dark or system (default: system)
	Theme string `yaml:"theme"`
}

// WindowConfig holds the initial main window size.
type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// StdinConfig controls how long standard input is polled.
type StdinConfig struct {
	// PollTimeout bounds the check at startup (default: 0, a pure poll)
	PollTimeout time.Duration `yaml:"poll_timeout"`

	// RecheckTimeout bounds the check after the file dialog was cancelled (default: 100ms)
	RecheckTimeout time.Duration `yaml:"recheck_timeout"`
}

// TableConfig bounds the grid's column widths.
type TableConfig struct {
	MinColumnWidth float32 `yaml:"min_column_width"`
	MaxColumnWidth float32 `yaml:"max_column_width"`
}

// SQLiteConfig holds database loading settings.
type SQLiteConfig struct {
	// LoadTimeout caps reading all selected tables; zero means no limit (default: 30s)
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error (default: info)
	Level string `yaml:"level"`

	// Format is text or json (default: text)
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1024, Height: 700},
		Stdin:  StdinConfig{RecheckTimeout: 100 * time.Millisecond},
		Table:  TableConfig{MinColumnWidth: 60, MaxColumnWidth: 400},
		SQLite: SQLiteConfig{LoadTimeout: 30 * time.Second},
		Log:    LogConfig{Level: "info", Format: "text"},
		Theme:  "system",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tableview/config.yaml or the
// platform equivalent. It is empty when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tableview", "config.yaml")
}

// Load reads the file at path over the defaults and validates the result.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size (%gx%g) must be positive", c.Window.Width, c.Window.Height))
	}

	if c.Stdin.PollTimeout < 0 {
		errs = append(errs, "stdin.poll_timeout must be non-negative")
	}
	if c.Stdin.RecheckTimeout < 0 {
		errs = append(errs, "stdin.recheck_timeout must be non-negative")
	}

	if c.Table.MinColumnWidth <= 0 {
		errs = append(errs, "table.min_column_width must be positive")
	}
	if c.Table.MaxColumnWidth < c.Table.MinColumnWidth {
		errs = append(errs, fmt.Sprintf("table.max_column_width (%g) must be >= table.min_column_width (%g)",
			c.Table.MaxColumnWidth, c.Table.MinColumnWidth))
	}

	if c.SQLite.LoadTimeout < 0 {
		errs = append(errs, "sqlite.load_timeout must be non-negative")
	}

	validThemes := map[string]bool{"light": true, "dark": true, "system": true}
	if !validThemes[strings.ToLower(c.Theme)] {
		errs = append(errs, fmt.Sprintf("theme (%q) must be one of: light, dark, system", c.Theme))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level (%q) must be one of: debug, info, warn, error", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, fmt.Sprintf("log.format (%q) must be one of: text, json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
