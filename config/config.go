// Package config is the engine's YAML-driven configuration surface:
// the on-disk index directory, analysis settings, cache sizing, and
// logging, loaded and defaulted the way this module's teacher corpus
// loads its own top-level Config (SPEC_FULL.md §4.11).
//
// The FOR codec's nominal block size is deliberately not exposed here:
// it is never recorded in the segment wire format (spec.md §6's FOR
// payload only marks a block SIZED when it's shorter than the nominal
// size), so a reader can only decode correctly if it assumes the same
// nominal size the writer used. Making that a runtime setting would let
// a misconfigured reader silently corrupt every non-final block it
// reads; internal/for32.BlockSize stays a fixed engine-wide constant
// instead.
package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for one lexidex index.
type Config struct {
	Dir       string         `yaml:"dir"`
	CacheSize int            `yaml:"cache_size"`
	Analysis  AnalysisConfig `yaml:"analysis"`
	Logger    LoggerConfig   `yaml:"logger"`
}

// AnalysisConfig controls the default analysis pipeline.
type AnalysisConfig struct {
	StopWords []string `yaml:"stop_words"`
	Stem      bool     `yaml:"stem"`
}

// LoggerConfig controls lexidexlog.Setup.
type LoggerConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Rotation   bool   `yaml:"rotation"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// NewDefault returns a Config with the engine's defaults: a 1024-entry
// term cache and info-level console logging.
func NewDefault() Config {
	return Config{
		Dir:       "./lexidex-data",
		CacheSize: 1024,
		Logger:    LoggerConfig{Level: "info"},
	}
}

// Load reads and parses a YAML config file at path, applying defaults
// for any zero-valued field the file doesn't set, then validates it.
func Load(path string) (Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg for internally-inconsistent settings, joining
// every violation found (rather than stopping at the first) via
// go.uber.org/multierr so a caller sees the whole picture at once.
func (c Config) Validate() error {
	var errs error
	if c.Dir == "" {
		errs = multierr.Append(errs, fmt.Errorf("config: dir must not be empty"))
	}
	if c.CacheSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("config: cache_size must be >= 0, got %d", c.CacheSize))
	}
	switch c.Logger.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("config: logger.level invalid: %q", c.Logger.Level))
	}
	return errs
}
