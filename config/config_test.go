package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want Default()", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a nonexistent config file")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "sampler:\n  kind: interval\n  num_samples: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sampler.Kind != "interval" {
		t.Errorf("Sampler.Kind = %q, want \"interval\"", cfg.Sampler.Kind)
	}
	if cfg.Sampler.NumSamples != 50 {
		t.Errorf("Sampler.NumSamples = %d, want 50", cfg.Sampler.NumSamples)
	}
	// fields absent from the file should retain Default()'s values.
	if cfg.Sampler.BucketSize != Default().Sampler.BucketSize {
		t.Errorf("Sampler.BucketSize = %d, want default %d", cfg.Sampler.BucketSize, Default().Sampler.BucketSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"bad kind", func(c *Config) { c.Sampler.Kind = "bogus" }, true},
		{"zero samples", func(c *Config) { c.Sampler.NumSamples = 0 }, true},
		{"zero bucket size", func(c *Config) { c.Sampler.BucketSize = 0 }, true},
		{"interval kind needs domain intervals", func(c *Config) {
			c.Sampler.Kind = "interval"
			c.Sampler.DomainIntervals = 0
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
