// Package config provides configuration management for reviewer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/reviewer/internal/filter"
	"github.com/fentz26/reviewer/internal/scoring"
)

// Config holds all configuration for reviewer.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Scoring  scoring.Config `yaml:"scoring" mapstructure:"scoring"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	UI       UIConfig       `yaml:"ui" mapstructure:"ui"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig holds settings for the TUI debug log.
type LogConfig struct {
	Path     string            `yaml:"path" mapstructure:"path"`
	Rotation LogRotationConfig `yaml:"rotation" mapstructure:"rotation"`
}

// LogRotationConfig holds settings for log file rotation (lumberjack).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// UIConfig holds settings for the terminal UI.
type UIConfig struct {
	ShowDetail bool `yaml:"show_detail" mapstructure:"show_detail"`
	// RequiresInternet is the filter a session starts with: any, yes or no.
	RequiresInternet string `yaml:"requires_internet" mapstructure:"requires_internet"`
}

// DataDir is where the database and logs live by default.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reviewer"
	}
	return filepath.Join(home, ".reviewer")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "reviewer.db"),
		},
		Scoring: scoring.DefaultConfig(),
		Log: LogConfig{
			Path: filepath.Join(dir, "reviewer-debug.log"),
			Rotation: LogRotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		UI: UIConfig{
			ShowDetail:       true,
			RequiresInternet: "any",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must be set")
	}
	if c.Scoring.BasePriorityFactor <= 0 {
		return fmt.Errorf("scoring.base_priority_factor must be positive, got %v", c.Scoring.BasePriorityFactor)
	}
	if c.Scoring.DelayPerRequest < 0 {
		return fmt.Errorf("scoring.delay_per_request must not be negative, got %v", c.Scoring.DelayPerRequest)
	}
	if c.Log.Rotation.MaxSizeMB < 0 || c.Log.Rotation.MaxBackups < 0 || c.Log.Rotation.MaxAgeDays < 0 {
		return fmt.Errorf("log.rotation values must not be negative")
	}
	if _, err := filter.ParseTristate(c.UI.RequiresInternet); err != nil {
		return fmt.Errorf("ui.requires_internet: %w", err)
	}
	return nil
}

// InitialCriteria returns the filter a session starts with.
func (c *Config) InitialCriteria() filter.Criteria {
	t, _ := filter.ParseTristate(c.UI.RequiresInternet)
	return filter.Criteria{RequiresInternet: t}
}
