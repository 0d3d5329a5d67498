// Package config provides configuration management for the journal
// application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"wheelhouse/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Risk       RiskConfig       `mapstructure:"risk"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig tunes the path simulator and Monte Carlo estimator.
type SimulationConfig struct {
	Paths       int     `mapstructure:"paths"`
	Steps       int     `mapstructure:"steps"`
	DT          float64 `mapstructure:"dt"`
	HistorySize int     `mapstructure:"history_size"`
}

// RiskConfig holds risk engine configuration.
type RiskConfig struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	Workers      int     `mapstructure:"workers"`
}

// MarketDataConfig holds quote cache configuration.
type MarketDataConfig struct {
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/wheelhouse"
	}
	return filepath.Join(home, ".config", "wheelhouse")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DefaultConfigDir()
	return &Config{
		Simulation: SimulationConfig{
			Paths:       1000,
			Steps:       30,
			DT:          0.01,
			HistorySize: 15,
		},
		Risk: RiskConfig{
			RiskFreeRate: 0.05,
			Workers:      0, // NumCPU
		},
		MarketData: MarketDataConfig{
			CacheTTLMinutes: 5,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(dir, "journal.db"),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Console:  true,
			File:     true,
			FilePath: filepath.Join(dir, "logs", "wheelhouse.log"),
		},
	}
}

// Load loads configuration from the specified directory, falling back to
// defaults when no config file exists. If configDir is empty, uses the
// default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)
	v.SetEnvPrefix("WHEELHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// No file: defaults plus environment overrides still apply.
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key with viper so environment overrides
// (WHEELHOUSE_SIMULATION_PATHS and friends) bind even when no config file
// exists.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("simulation.paths", cfg.Simulation.Paths)
	v.SetDefault("simulation.steps", cfg.Simulation.Steps)
	v.SetDefault("simulation.dt", cfg.Simulation.DT)
	v.SetDefault("simulation.history_size", cfg.Simulation.HistorySize)
	v.SetDefault("risk.risk_free_rate", cfg.Risk.RiskFreeRate)
	v.SetDefault("risk.workers", cfg.Risk.Workers)
	v.SetDefault("market_data.cache_ttl_minutes", cfg.MarketData.CacheTTLMinutes)
	v.SetDefault("storage.db_path", cfg.Storage.DBPath)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Simulation.Paths <= 0 {
		return errors.NewValidationError("simulation.paths", c.Simulation.Paths, "must be positive")
	}
	if c.Simulation.Steps <= 0 {
		return errors.NewValidationError("simulation.steps", c.Simulation.Steps, "must be positive")
	}
	if c.Simulation.DT <= 0 {
		return errors.NewValidationError("simulation.dt", c.Simulation.DT, "must be positive")
	}
	if c.Risk.RiskFreeRate < 0 || c.Risk.RiskFreeRate > 1 {
		return errors.NewValidationError("risk.risk_free_rate", c.Risk.RiskFreeRate, "must be a fraction in [0, 1]")
	}
	if c.MarketData.CacheTTLMinutes <= 0 {
		return errors.NewValidationError("market_data.cache_ttl_minutes", c.MarketData.CacheTTLMinutes, "must be positive")
	}
	if c.Storage.DBPath == "" {
		return errors.NewValidationError("storage.db_path", c.Storage.DBPath, "must not be empty")
	}
	return nil
}
