// Package config loads vocabreader settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/page"
	"github.com/japaniel/vocabreader/pkg/tokenize"
)

const appName = "vocabreader"

// Config represents the application configuration
type Config struct {
	Text          string       `yaml:"text"`
	Glossary      string       `yaml:"glossary"`
	User          string       `yaml:"user"`
	WordsPerPage  int          `yaml:"words_per_page"`
	BoundaryChars string       `yaml:"boundary_chars"`
	Duplicates    string       `yaml:"duplicates"`   // "overwrite" or "reject"
	DisplayMode   string       `yaml:"display_mode"` // "english" or "full"
	Segmenter     string       `yaml:"segmenter"`    // "none" or "japanese"
	Store         StoreConfig  `yaml:"store"`
	Server        ServerConfig `yaml:"server"`
}

// StoreConfig selects where saved words live
type StoreConfig struct {
	Driver        string        `yaml:"driver"` // "sqlite" or "file"
	Path          string        `yaml:"path"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// ServerConfig controls the JSON endpoint
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		User:          "default",
		WordsPerPage:  page.DefaultSize,
		BoundaryChars: tokenize.DefaultBoundary,
		Duplicates:    "overwrite",
		DisplayMode:   "english",
		Segmenter:     "none",
		Store: StoreConfig{
			Driver:        "sqlite",
			FlushInterval: 2 * time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// ConfigDir returns XDG_CONFIG_HOME/vocabreader or ~/.config/vocabreader.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// StateDir returns XDG_STATE_HOME/vocabreader or ~/.local/state/vocabreader.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", appName)
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values no component accepts.
func (c *Config) Validate() error {
	if c.WordsPerPage <= 0 {
		return fmt.Errorf("words_per_page must be positive, got %d", c.WordsPerPage)
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		return err
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	switch c.StoreDriver() {
	case "sqlite", "file":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.SegmenterName() {
	case "none", "japanese":
	default:
		return fmt.Errorf("unknown segmenter %q", c.Segmenter)
	}
	if c.Store.FlushInterval < 0 {
		return fmt.Errorf("store.flush_interval must not be negative")
	}
	return nil
}

// Mode returns the display mode.
func (c *Config) Mode() (annotate.Mode, error) {
	return annotate.ParseMode(c.DisplayMode)
}

// DuplicatePolicy returns the glossary collision policy.
func (c *Config) DuplicatePolicy() (glossary.DuplicatePolicy, error) {
	return glossary.ParseDuplicatePolicy(c.Duplicates)
}

// Normalizer returns the key normalizer for the configured boundary set.
func (c *Config) Normalizer() tokenize.Normalizer {
	return tokenize.NewNormalizer(c.BoundaryChars)
}

// StoreDriver returns the lowercased driver name, "sqlite" when unset.
func (c *Config) StoreDriver() string {
	d := strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if d == "" {
		return "sqlite"
	}
	return d
}

// SegmenterName returns the lowercased segmenter name, "none" when unset.
func (c *Config) SegmenterName() string {
	s := strings.ToLower(strings.TrimSpace(c.Segmenter))
	if s == "" {
		return "none"
	}
	return s
}

// StorePath returns the configured store path or the driver's default under
// StateDir.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.StoreDriver() == "file" {
		return filepath.Join(StateDir(), "saved_words.json")
	}
	return filepath.Join(StateDir(), "vocab.db")
}

// Tokenizer builds the configured tokenizer.
func (c *Config) Tokenizer() (tokenize.Tokenizer, error) {
	if c.SegmenterName() != "japanese" {
		return tokenize.Tokenizer{}, nil
	}
	seg, err := tokenize.NewJapaneseSegmenter()
	if err != nil {
		return tokenize.Tokenizer{}, fmt.Errorf("japanese segmenter: %w", err)
	}
	return tokenize.Tokenizer{Segmenter: seg}, nil
}
