// Package config loads the service configuration for serve mode.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "1h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// KernelConfig selects the geometry kernel backend.
type KernelConfig struct {
	// Command starts the out-of-process kernel worker. Empty means the
	// built-in approximate kernel.
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// StoreConfig selects where generation results are persisted.
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis".
	Backend  string        `yaml:"backend"`
	Path     string        `yaml:"path"`     // file backend
	Address  string        `yaml:"address"`  // redis backend
	Password string        `yaml:"password"` // redis backend
	DB       int           `yaml:"db"`       // redis backend
	TTL      Duration      `yaml:"ttl"`      // redis backend, 0 = keep forever
}

// Config is the serve-mode configuration.
type Config struct {
	Listen     string       `yaml:"listen"`
	OutputDir  string       `yaml:"output_dir"`
	Deflection float64      `yaml:"deflection"`
	Kernel     KernelConfig `yaml:"kernel"`
	Store      StoreConfig  `yaml:"store"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:     ":8080",
		OutputDir:  "output",
		Deflection: 0.1,
		Store:      StoreConfig{Backend: "memory"},
	}
}

// Load reads a YAML configuration file. A missing file is not an error:
// the defaults are returned, so `flacon serve` works out of the box.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
