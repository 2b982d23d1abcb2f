// Package config provides configuration management for tbuck.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Granularity: %s\n", cfg.Granularity)
package config

import (
	"time"

	"github.com/tbuck/tbuck/pkg/bucket"
	"github.com/tbuck/tbuck/pkg/display"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Granularity must parse as a bucket size
// - MatchIndex must be >= 0
// - Follow.DebounceInterval must be > 0
// - Display.Format must be a known output format.
type Config struct {
	// Default bucket size, e.g. "30s", "5m", "1h"
	Granularity string `yaml:"granularity"`

	// Which timestamp match on a line to bucket by (0-based)
	MatchIndex int `yaml:"match_index"`

	// Skip zero-count rows for empty buckets
	NoFill bool `yaml:"no_fill"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Follow mode settings
	Follow FollowConfig `yaml:"follow"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// DisplayConfig contains output settings.
type DisplayConfig struct {
	// Output format (csv, json, table)
	Format string `yaml:"format"`
}

// FollowConfig contains follow mode settings.
type FollowConfig struct {
	// How long to coalesce rapid file change events
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Path to the BoltDB file holding read offsets. Empty means
	// offsets are kept in memory only and each run starts over.
	PositionsDB string `yaml:"positions_db"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
func (c *Config) Validate() error {
	if _, err := bucket.Parse(c.Granularity); err != nil {
		return ErrInvalidGranularity
	}

	if c.MatchIndex < 0 {
		return ErrInvalidMatchIndex
	}

	if !display.Format(c.Display.Format).Valid() {
		return ErrInvalidDisplayFormat
	}

	if c.Follow.DebounceInterval <= 0 {
		return ErrInvalidDebounceInterval
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Granularity: "1m",
		MatchIndex:  0,
		NoFill:      false,
		Display: DisplayConfig{
			Format: string(display.FormatCSV),
		},
		Follow: FollowConfig{
			DebounceInterval: 100 * time.Millisecond,
			PositionsDB:      "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
