package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns a config populated with the built-in defaults. Kept in
// sync with the viper defaults in Load.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{Workers: 0},
		Correlator: CorrelatorConfig{
			InactivityGapSeconds:   300,
			SyntheticBucketSeconds: 30,
		},
		Ingest:  IngestConfig{MaxDiagnostics: 50},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: false, Addr: ":9190"},
	}
}

// Write marshals the config to YAML at path. Used to scaffold a starting
// config file that Load will read back.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
