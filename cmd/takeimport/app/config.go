package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Import   ImportConfig  `yaml:"import"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// ImportConfig selects the take files to import: an explicit file list,
// a directory scanned with a glob pattern, or both.
type ImportConfig struct {
	SourceDir string   `yaml:"sourceDir"`
	Pattern   string   `yaml:"pattern"`
	Files     []string `yaml:"files"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// NewConfigFromFile loads and validates the configuration at path.
func NewConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate applies defaults and rejects incomplete configurations.
func (c *Config) Validate() error {
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	if _, ok := logLevels[c.Settings.LogLevel]; !ok {
		return fmt.Errorf("invalid log level '%s'", c.Settings.LogLevel)
	}

	if c.Import.Pattern == "" {
		c.Import.Pattern = "*.csv"
	}
	if c.Import.SourceDir == "" && len(c.Import.Files) == 0 {
		return errors.New("either import.sourceDir or import.files must be set")
	}

	if c.Storage.DatabasePath == "" {
		return errors.New("storage.databasePath is required")
	}

	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return logLevels[c.Settings.LogLevel]
}
