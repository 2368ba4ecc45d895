// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory.
const DefaultConfigFile = "prospector.yaml"

// Config holds static settings for the pipeline (read-only after load).
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path,omitempty"`
	// ArchiveDir is the default directory scanned by the import command.
	ArchiveDir string `yaml:"archive_dir,omitempty"`
	// OverridesPath is the manual link-override file.
	OverridesPath string `yaml:"overrides_path,omitempty"`
	// RosterPath is the participant roster file.
	RosterPath string `yaml:"roster_path,omitempty"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level,omitempty"`
	// Workers bounds concurrent archive extraction.
	Workers int `yaml:"workers,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DBPath:        "prospector.db",
		ArchiveDir:    "saves",
		OverridesPath: "overrides.yaml",
		RosterPath:    "roster.yaml",
		LogLevel:      "info",
		Workers:       4,
	}
}

// Load reads the config file from basePath (missing file is fine, defaults
// apply), then applies .env and environment overrides.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	configFile := filepath.Join(basePath, DefaultConfigFile)
	data, err := os.ReadFile(configFile)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// A .env file sits alongside the config in development setups; absence
	// is not an error.
	_ = godotenv.Load(filepath.Join(basePath, ".env"))
	cfg.applyEnvOverrides()

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PROSPECTOR_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PROSPECTOR_ARCHIVE_DIR"); v != "" {
		c.ArchiveDir = v
	}
	if v := os.Getenv("PROSPECTOR_OVERRIDES_PATH"); v != "" {
		c.OverridesPath = v
	}
	if v := os.Getenv("PROSPECTOR_ROSTER_PATH"); v != "" {
		c.RosterPath = v
	}
	if v := os.Getenv("PROSPECTOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
