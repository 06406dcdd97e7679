// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/ledger-analytics/internal/colors"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_CACHE_TTL_SECONDS.
const EnvPrefix = "LEDGER"

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CacheConfig controls the analytics memo.
type CacheConfig struct {
	TTLSeconds             int `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
	MaxEntries             int `mapstructure:"max_entries" yaml:"max_entries"`
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds" yaml:"cleanup_interval_seconds"`
}

// AnalyticsConfig controls the aggregation engine.
type AnalyticsConfig struct {
	Timezone           string   `mapstructure:"timezone" yaml:"timezone"`
	DefaultRange       string   `mapstructure:"default_range" yaml:"default_range"`
	TopCategoriesLimit int      `mapstructure:"top_categories_limit" yaml:"top_categories_limit"`
	Palette            []string `mapstructure:"palette" yaml:"palette"`
}

// DataConfig names the snapshot files read by the CLI.
type DataConfig struct {
	TransactionsFile string `mapstructure:"transactions_file" yaml:"transactions_file"`
	AccountsFile     string `mapstructure:"accounts_file" yaml:"accounts_file"`
	SnapshotFile     string `mapstructure:"snapshot_file" yaml:"snapshot_file"`
}

// Config represents the complete application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
}

// TTL returns the cache time-to-live as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// CleanupInterval returns the janitor period; zero disables the janitor.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Cache.CleanupIntervalSeconds) * time.Second
}

// Location resolves analytics.timezone. "Local" and the empty string map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	switch c.Analytics.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Analytics.Timezone, err)
	}
	return loc, nil
}

// DefaultRange parses analytics.default_range. Validation guarantees it is known.
func (c *Config) DefaultRange() timewindow.Range {
	r, err := timewindow.Parse(c.Analytics.DefaultRange)
	if err != nil {
		return timewindow.All
	}
	return r
}

// InitializeConfig loads configuration from the default search paths.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load initializes Viper with hierarchical loading: defaults, then the config file,
// then LEDGER_* environment variables. An explicit file that cannot be read is an
// error; a missing file in the search paths is not.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledger-analytics")
		v.AddConfigPath(".ledger-analytics")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cache.ttl_seconds", 120)
	v.SetDefault("cache.max_entries", 512)
	v.SetDefault("cache.cleanup_interval_seconds", 60)

	v.SetDefault("analytics.timezone", "Local")
	v.SetDefault("analytics.default_range", timewindow.Month.String())
	v.SetDefault("analytics.top_categories_limit", 5)
	v.SetDefault("analytics.palette", append([]string(nil), colors.DefaultPalette...))

	v.SetDefault("data.transactions_file", "")
	v.SetDefault("data.accounts_file", "")
	v.SetDefault("data.snapshot_file", "")
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Cache.TTLSeconds < 1 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got: %d", config.Cache.TTLSeconds)
	}

	if config.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got: %d", config.Cache.MaxEntries)
	}

	if config.Cache.CleanupIntervalSeconds < 0 {
		return fmt.Errorf("cache.cleanup_interval_seconds must not be negative, got: %d", config.Cache.CleanupIntervalSeconds)
	}

	if _, err := config.Location(); err != nil {
		return err
	}

	if _, err := timewindow.Parse(config.Analytics.DefaultRange); err != nil {
		return fmt.Errorf("analytics.default_range: %w", err)
	}

	if config.Analytics.TopCategoriesLimit < 1 {
		return fmt.Errorf("analytics.top_categories_limit must be at least 1, got: %d", config.Analytics.TopCategoriesLimit)
	}

	if len(config.Analytics.Palette) != colors.PaletteSize {
		return fmt.Errorf("analytics.palette must have %d colors, got: %d", colors.PaletteSize, len(config.Analytics.Palette))
	}
	for _, c := range config.Analytics.Palette {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("analytics.palette: invalid color %q", c)
		}
	}

	return nil
}
