// This file defines the configuration structure for the source bundle.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// RateLimit caps how many requests a source may start per interval. The
// limiter only spaces requests out; it never affects what a source returns.
type RateLimit struct {
	Requests int `mapstructure:"requests"`
	Interval int `mapstructure:"interval"` // seconds
}

// SourceSettings holds the per-source knobs.
type SourceSettings struct {
	Cookie           string    `mapstructure:"cookie"`
	BypassCloudflare bool      `mapstructure:"bypass_cloudflare"`
	RateLimit        RateLimit `mapstructure:"rate_limit"`
}

// Config holds all configuration settings for the source bundle.
// It maps directly to the structure of config.yml.
type Config struct {
	UserAgent      string                    `mapstructure:"user_agent"`
	RequestTimeout int                       `mapstructure:"request_timeout"` // seconds
	Sources        map[string]SourceSettings `mapstructure:"sources"`
}

// Source returns the settings for one source id, zero-valued when the
// config names no such source.
func (c *Config) Source(id string) SourceSettings {
	return c.Sources[id]
}

// Load reads configuration from a file named "config.yml" in the current
// directory and unmarshals it into a Config struct. Environment variables
// with an "INKSOURCES_" prefix override file values, e.g.
// INKSOURCES_REQUEST_TIMEOUT overrides `request_timeout`.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("INKSOURCES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The rate numbers match what each site tolerates before challenging.
	viper.SetDefault("request_timeout", 30)
	viper.SetDefault("sources.toonily.rate_limit.requests", 10)
	viper.SetDefault("sources.toonily.rate_limit.interval", 1)
	viper.SetDefault("sources.demonicscans.rate_limit.requests", 4)
	viper.SetDefault("sources.demonicscans.rate_limit.interval", 1)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults.
		} else {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
