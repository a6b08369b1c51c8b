// Package config loads tool configuration from an optional YAML file plus
// environment variables, with sane defaults for everything.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Buylist BuylistConfig `mapstructure:"buylist"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds pricing-provider client configuration.
type CatalogConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// BuylistConfig holds buylist defaults overridable per run by flags.
type BuylistConfig struct {
	CopiesPerFinish int `mapstructure:"copies_per_finish"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// Load loads the configuration from file and environment variables.
// A missing config file is not an error; defaults and env apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("CARDPRICER")
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("catalog.base_url", "CARDPRICER_CATALOG_URL")
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Catalog defaults: Scryfall asks for 50-100ms between requests.
	v.SetDefault("catalog.base_url", "https://api.scryfall.com")
	v.SetDefault("catalog.request_delay", 100*time.Millisecond)
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.initial_backoff", 100*time.Millisecond)
	v.SetDefault("catalog.max_backoff", 30*time.Second)

	// Buylist defaults
	v.SetDefault("buylist.copies_per_finish", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)
}
