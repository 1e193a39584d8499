package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/goebr2/internal/deck"
	"github.com/alexiusacademia/goebr2/internal/material"
	"github.com/alexiusacademia/goebr2/internal/section"
)

// Config holds all goebr2 configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Core    CoreConfig    `yaml:"core"`
	Divide  DivideConfig  `yaml:"divide"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the input datasets and the output root.
type PathsConfig struct {
	Layout       string `yaml:"layout"`       // core loading table (CSV)
	Compositions string `yaml:"compositions"` // per-assembly slug compositions
	Output       string `yaml:"output"`
}

// CoreConfig describes the core geometry.
type CoreConfig struct {
	Rings           int     `yaml:"rings"`
	Pitch           float64 `yaml:"pitch"`            // cm
	BulkTemperature float64 `yaml:"bulk_temperature"` // K
}

// DivideConfig configures the input card divider.
type DivideConfig struct {
	BatchSize   int      `yaml:"batch_size"`
	Workers     int      `yaml:"workers"`
	ScriptsDir  string   `yaml:"scripts_dir"`
	ScriptFiles []string `yaml:"script_files"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Layout:       "assembLocations.csv",
			Compositions: "compositions",
			Output:       ".",
		},
		Core: CoreConfig{
			Rings:           16,
			Pitch:           section.LatticeCell,
			BulkTemperature: material.DefaultBulkTemperature,
		},
		Divide: DivideConfig{
			BatchSize:   50,
			Workers:     4,
			ScriptFiles: append([]string(nil), deck.DefaultScriptFiles...),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults still honour the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("GOEBR2_LAYOUT"); path != "" {
		c.Paths.Layout = path
	}
	if path := os.Getenv("GOEBR2_COMPOSITIONS"); path != "" {
		c.Paths.Compositions = path
	}
	if path := os.Getenv("GOEBR2_OUTPUT"); path != "" {
		c.Paths.Output = path
	}
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Core.Rings < 1 || c.Core.Rings > 16 {
		return fmt.Errorf("core rings must be 1..16, got %d", c.Core.Rings)
	}
	if c.Core.Pitch <= 0 {
		return fmt.Errorf("core pitch must be positive, got %g", c.Core.Pitch)
	}
	if c.Core.BulkTemperature < 0 {
		return fmt.Errorf("bulk temperature must not be negative, got %g", c.Core.BulkTemperature)
	}
	if c.Divide.BatchSize <= 0 {
		return fmt.Errorf("divide batch size must be positive, got %d", c.Divide.BatchSize)
	}
	if c.Divide.Workers < 0 {
		return fmt.Errorf("divide workers must not be negative, got %d", c.Divide.Workers)
	}

	validLevel := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	return nil
}
