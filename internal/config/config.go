// Package config handles TOML and environment configuration for ec2tags.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "EC2TAGS_"

// Config is the root configuration structure.
type Config struct {
	AWS     AWSConfig     `toml:"aws"`
	Run     RunConfig     `toml:"run"`
	Log     LogConfig     `toml:"log"`
	Pricing PricingConfig `toml:"pricing"`
}

// AWSConfig holds AWS provider settings.
type AWSConfig struct {
	Region       string `toml:"region" env:"REGION"`
	Profile      string `toml:"profile" env:"PROFILE"`
	DetectRegion bool   `toml:"detect_region" env:"DETECT_REGION"`
}

// RunConfig holds settings for a single pass.
type RunConfig struct {
	Concurrency    int    `toml:"concurrency" env:"CONCURRENCY"`
	CallTimeoutStr string `toml:"call_timeout" env:"CALL_TIMEOUT"`
	CallTimeout    time.Duration
	DryRun         bool `toml:"dry_run" env:"DRY_RUN"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" env:"LOG_FORMAT"`
}

// PricingConfig holds savings estimate settings.
type PricingConfig struct {
	Enabled bool   `toml:"enabled" env:"PRICING_ENABLED"`
	Region  string `toml:"region" env:"PRICING_REGION"`
}

// Load reads an optional TOML file, applies environment overrides and defaults.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.ParseTimeout(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Run.Concurrency == 0 {
		cfg.Run.Concurrency = 4
	}
	if cfg.Run.CallTimeoutStr == "" {
		cfg.Run.CallTimeoutStr = "30s"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Pricing.Region == "" {
		cfg.Pricing.Region = "us-east-1"
	}
}

// ParseTimeout converts the call timeout string into CallTimeout
func (c *Config) ParseTimeout() error {
	d, err := time.ParseDuration(c.Run.CallTimeoutStr)
	if err != nil {
		return fmt.Errorf("parse call_timeout %q: %w", c.Run.CallTimeoutStr, err)
	}
	c.Run.CallTimeout = d
	return nil
}

// Validate checks the configuration is valid.
func (c *Config) Validate() error {
	if c.Run.Concurrency < 1 {
		return fmt.Errorf("run: concurrency must be at least 1 (got %d)", c.Run.Concurrency)
	}
	if c.Run.CallTimeout <= 0 {
		return fmt.Errorf("run: call_timeout must be positive (got %s)", c.Run.CallTimeout)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log: format must be console or json (got %q)", c.Log.Format)
	}
	return nil
}
