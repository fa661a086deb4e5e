// Package config loads sampler run parameters from a YAML file, layered
// over built-in defaults so a bare invocation with no file still runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable parameter the sampler and its IJGP engine
// accept, mirroring the CLI flag surface so a run can be fully described by
// either a file or flags (flags win, see cmd/sampler).
type Config struct {
	Logging Logging `yaml:"logging"`
	Sampler Sampler `yaml:"sampler"`
	Metrics Metrics `yaml:"metrics"`
}

// Logging configures internal/obslog.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Sampler configures ijgp.Sampler / ijgp.IntervalSampler.
type Sampler struct {
	Kind              string  `yaml:"kind"` // "point" or "interval"
	Dataset           string  `yaml:"dataset"`
	NumSamples        int     `yaml:"num_samples"`
	BurnIn            int     `yaml:"burn_in"`
	BucketSize        int     `yaml:"bucket_size"`
	IJGPProbability   float64 `yaml:"ijgp_probability"`
	IJGPIterations    int     `yaml:"ijgp_iterations"`
	DomainIntervals   int     `yaml:"domain_intervals"`
	ValuesFromInterval int    `yaml:"values_from_interval"`
	Seed              int64   `yaml:"seed"`
}

// Metrics configures the Prometheus exporter.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the reference configuration used when no file is given
// and no flag overrides a field.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: "info", Format: "console"},
		Sampler: Sampler{
			Kind:               "point",
			NumSamples:         100,
			BurnIn:             0,
			BucketSize:         2,
			IJGPProbability:    1.0,
			IJGPIterations:     10,
			DomainIntervals:    10,
			ValuesFromInterval: 2,
			Seed:               1,
		},
		Metrics: Metrics{Enabled: false, Addr: ":9090"},
	}
}

// Load reads and parses a YAML file at path into a copy of Default. An
// empty path is not an error: Default is returned unchanged, letting
// callers rely on flags alone.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports an error if any field holds a value the sampler cannot
// run with.
func (c *Config) Validate() error {
	if c.Sampler.Kind != "point" && c.Sampler.Kind != "interval" {
		return fmt.Errorf("config: sampler.kind must be \"point\" or \"interval\", got %q", c.Sampler.Kind)
	}
	if c.Sampler.NumSamples < 1 {
		return fmt.Errorf("config: sampler.num_samples must be at least 1")
	}
	if c.Sampler.BucketSize < 1 {
		return fmt.Errorf("config: sampler.bucket_size must be at least 1")
	}
	if c.Sampler.Kind == "interval" && c.Sampler.DomainIntervals < 1 {
		return fmt.Errorf("config: sampler.domain_intervals must be at least 1 for an interval sampler")
	}
	return nil
}
