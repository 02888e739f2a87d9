// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// config.go — Config, its defaults and validation, and LoadConfig, which
// reads YAML files and PAIDY_* environment overrides through viper.

package paidy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AndrewDonelson/paidy/internal/clock"
	"github.com/AndrewDonelson/paidy/internal/codec"
	"github.com/AndrewDonelson/paidy/internal/metrics"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.Recorder
type Clock = clock.Clock

// LogConfig selects the zap logger built by the CLI.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
}

// Config contains codec service and webhook inbox configuration.
type Config struct {
	// Engine names the JSON backend: "json" (encoding/json) or "sonic".
	Engine string `mapstructure:"engine"`

	// Webhook inbox tiers. L2 and L3 are enabled by a non-empty address.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	JournalTable  string `mapstructure:"journal_table"`

	// Dedupe window and bounds
	DedupeTTL        time.Duration `mapstructure:"dedupe_ttl"`
	MaxDedupeEntries int           `mapstructure:"max_dedupe_entries"`
	KeyPrefix        string        `mapstructure:"key_prefix"`

	Log LogConfig `mapstructure:"log"`

	// Optional overrideable components
	Clock   clock.Clock      `mapstructure:"-"`
	Metrics metrics.Recorder `mapstructure:"-"`
	Logger  Logger           `mapstructure:"-"`
}

// Default values applied to zero Config fields.
const (
	DefaultEngine           = "json"
	DefaultDedupeTTL        = 24 * time.Hour
	DefaultMaxDedupeEntries = 100_000
	DefaultKeyPrefix        = "paidy:webhook"
)

func (c *Config) defaults() {
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	if c.DedupeTTL == 0 {
		c.DedupeTTL = DefaultDedupeTTL
	}
	if c.MaxDedupeEntries == 0 {
		c.MaxDedupeEntries = DefaultMaxDedupeEntries
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
}

func (c *Config) validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if _, err := codec.Lookup(c.Engine); err != nil {
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownEngine, c.Engine)
	}
	if c.DedupeTTL < 0 {
		return fmt.Errorf("%w: dedupe_ttl must not be negative", ErrInvalidConfig)
	}
	if c.MaxDedupeEntries < 0 {
		return fmt.Errorf("%w: max_dedupe_entries must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: invalid log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LoadConfig reads configuration from path when non-empty, otherwise from
// $PAIDY_CONFIG or a paidy.yaml in the working directory, ./configs or
// ~/.paidy. A missing file is not an error. Environment variables use the
// prefix PAIDY with "." replaced by "_", e.g. PAIDY_LOG_LEVEL=debug.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	cfg.defaults()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PAIDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("journal_table", "")
	v.SetDefault("dedupe_ttl", cfg.DedupeTTL)
	v.SetDefault("max_dedupe_entries", cfg.MaxDedupeEntries)
	v.SetDefault("key_prefix", cfg.KeyPrefix)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if path == "" {
		path = os.Getenv("PAIDY_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("paidy")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".paidy"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("paidy: read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("paidy: decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
