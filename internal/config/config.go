// Package config provides configuration management for options-lab.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/logging"
	"options-lab/internal/models"
	"options-lab/internal/options"
)

// Config holds all application configuration.
type Config struct {
	Defaults   models.ParameterSet      `mapstructure:"defaults"`
	Logging    logging.LogConfig        `mapstructure:"logging"`
	Server     ServerConfig             `mapstructure:"server"`
	Store      StoreConfig              `mapstructure:"store"`
	UI         UIConfig                 `mapstructure:"ui"`
	Strategies []options.ExpressionSpec `mapstructure:"strategies"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	MetricsEnabled  bool   `mapstructure:"metrics_enabled"`
}

// StoreConfig holds scenario store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	Currency     string `mapstructure:"currency"`
	ChartWidth   int    `mapstructure:"chart_width"`
	ChartHeight  int    `mapstructure:"chart_height"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-lab"
	}
	return filepath.Join(home, ".config", "options-lab")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by the commented template before loading.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	d := models.DefaultParameters()
	v.SetDefault("defaults.strike_price", d.StrikePrice)
	v.SetDefault("defaults.current_price", d.CurrentPrice)
	v.SetDefault("defaults.premium", d.Premium)
	v.SetDefault("defaults.days_to_expiry", d.DaysToExpiry)
	v.SetDefault("defaults.implied_volatility", d.ImpliedVolatility)
	v.SetDefault("defaults.interest_rate", d.InterestRate)
	v.SetDefault("defaults.dividend_yield", d.DividendYield)

	l := logging.DefaultLogConfig()
	v.SetDefault("logging.level", l.Level)
	v.SetDefault("logging.console", l.Console)
	v.SetDefault("logging.file", l.File)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "options-lab.log"))
	v.SetDefault("logging.max_size", l.MaxSize)
	v.SetDefault("logging.max_backups", l.MaxBackups)
	v.SetDefault("logging.max_age", l.MaxAge)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout_sec", 10)
	v.SetDefault("server.write_timeout_sec", 10)
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("store.path", filepath.Join(configDir, "scenarios.db"))

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.currency", "$")
	v.SetDefault("ui.chart_width", 61)
	v.SetDefault("ui.chart_height", 15)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONS_LAB_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OPTIONS_LAB_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("OPTIONS_LAB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := options.ValidateParameters(c.Defaults); err != nil {
		return fmt.Errorf("%w: defaults: %v", apperrors.ErrConfigInvalid, err)
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 {
		return fmt.Errorf("%w: server timeouts must be non-negative", apperrors.ErrConfigInvalid)
	}

	if c.UI.ChartWidth < 0 || c.UI.ChartHeight < 0 {
		return fmt.Errorf("%w: chart dimensions must be non-negative", apperrors.ErrConfigInvalid)
	}

	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}

	return nil
}

// Catalog compiles the configured expression strategies and returns them
// after the built-ins.
func (c *Config) Catalog() (*options.Catalog, error) {
	extra, err := options.CompileExpressions(c.Strategies)
	if err != nil {
		return nil, err
	}
	return options.NewCatalog(extra...)
}
