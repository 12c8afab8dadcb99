// Package config loads the engine configuration from a YAML file and
// RADIUSLOG_* environment variables, with working defaults for every knob.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains runtime configuration for the CLI and engine.
type Config struct {
	Parser     ParserConfig     `yaml:"parser" mapstructure:"parser"`
	Correlator CorrelatorConfig `yaml:"correlator" mapstructure:"correlator"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// ParserConfig captures parsing settings.
type ParserConfig struct {
	// Workers bounds the number of chunks a source is split into. Zero
	// means one worker per CPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// EffectiveWorkers resolves the worker count against the host CPU count.
func (p ParserConfig) EffectiveWorkers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// CorrelatorConfig captures session reconstruction settings. Both values
// are product policy, not protocol constants, so they stay tunable.
type CorrelatorConfig struct {
	// InactivityGapSeconds splits a recycled correlation key into separate
	// sessions when the gap between consecutive events exceeds it.
	InactivityGapSeconds int `yaml:"inactivity_gap_seconds" mapstructure:"inactivity_gap_seconds"`
	// SyntheticBucketSeconds is the time-bucket width used when deriving a
	// synthetic key for events lacking an explicit session id.
	SyntheticBucketSeconds int `yaml:"synthetic_bucket_seconds" mapstructure:"synthetic_bucket_seconds"`
}

// InactivityGap returns the inactivity gap as a duration.
func (c CorrelatorConfig) InactivityGap() time.Duration {
	return time.Duration(c.InactivityGapSeconds) * time.Second
}

// SyntheticBucket returns the synthetic-key bucket width as a duration.
func (c CorrelatorConfig) SyntheticBucket() time.Duration {
	return time.Duration(c.SyntheticBucketSeconds) * time.Second
}

// IngestConfig captures ingest reporting settings.
type IngestConfig struct {
	// MaxDiagnostics bounds how many parse errors are retained verbatim in
	// an ingest summary; the rest are only counted.
	MaxDiagnostics int `yaml:"max_diagnostics" mapstructure:"max_diagnostics"`
}

// LoggingConfig captures logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
}

// MetricsConfig captures the optional Prometheus listener used in watch
// mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// Load reads configuration from the provided path and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("parser.workers", 0)

	v.SetDefault("correlator.inactivity_gap_seconds", 300)
	v.SetDefault("correlator.synthetic_bucket_seconds", 30)

	v.SetDefault("ingest.max_diagnostics", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9190")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("radiuslog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/radiuslog")
	}

	// Environment variables override
	v.SetEnvPrefix("RADIUSLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found; use defaults
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Parser.Workers < 0 {
		return fmt.Errorf("parser.workers must not be negative, got %d", c.Parser.Workers)
	}
	if c.Correlator.InactivityGapSeconds <= 0 {
		return fmt.Errorf("correlator.inactivity_gap_seconds must be positive, got %d", c.Correlator.InactivityGapSeconds)
	}
	if c.Correlator.SyntheticBucketSeconds <= 0 {
		return fmt.Errorf("correlator.synthetic_bucket_seconds must be positive, got %d", c.Correlator.SyntheticBucketSeconds)
	}
	if c.Ingest.MaxDiagnostics < 0 {
		return fmt.Errorf("ingest.max_diagnostics must not be negative, got %d", c.Ingest.MaxDiagnostics)
	}
	return nil
}
