// Package config provides configuration management for the journal application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal JournalConfig `mapstructure:"journal"`
	Import  ImportConfig  `mapstructure:"import"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// JournalConfig holds journal-related configuration.
type JournalConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	Currency     string `mapstructure:"currency"` // display symbol, passed explicitly to formatters
}

// ImportConfig holds workbook import configuration.
type ImportConfig struct {
	HeaderRows   int    `mapstructure:"header_rows"`   // sheet rows skipped before data
	LabelColumns int    `mapstructure:"label_columns"` // leading row-label columns skipped
	DefaultSheet string `mapstructure:"default_sheet"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fxjournal"
	}
	return filepath.Join(home, ".config", "fxjournal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A template config file is written on first run.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("journal.database_path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("journal.currency", "$")
	v.SetDefault("import.header_rows", 2)
	v.SetDefault("import.label_columns", 1)
	v.SetDefault("import.default_sheet", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "fxjournal.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FXJOURNAL_DB_PATH"); v != "" {
		cfg.Journal.DatabasePath = v
	}
	if v := os.Getenv("FXJOURNAL_CURRENCY"); v != "" {
		cfg.Journal.Currency = v
	}
	if v := os.Getenv("FXJOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.DatabasePath == "" {
		return fmt.Errorf("journal.database_path must not be empty")
	}
	if c.Journal.Currency == "" {
		return fmt.Errorf("journal.currency must not be empty")
	}
	if c.Import.HeaderRows < 0 {
		return fmt.Errorf("import.header_rows must be non-negative")
	}
	if c.Import.LabelColumns < 0 {
		return fmt.Errorf("import.label_columns must be non-negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}
