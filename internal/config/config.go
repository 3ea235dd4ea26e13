// Package config loads the optional eve2cml settings file.
//
// Command line flags always win over the file. The file only changes the
// defaults, so a user can for example turn off colors or pick JSON output
// once instead of on every run.
//
// Config file locations (priority order):
//  1. $EVE2CML_CONFIG
//  2. ./eve2cml.yaml
//  3. $XDG_CONFIG_HOME/eve2cml/config.yaml
//  4. ~/.config/eve2cml/config.yaml
//  5. /etc/eve2cml/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for a config file that can't be used
var ErrInvalidConfig = errors.New("invalid config")

const (
	defaultLogLevel = "warning"
	defaultFormat   = "yaml"
)

var validate = validator.New()

// Config holds the settings that can be preset in a file
type Config struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warning error critical"`
	NoColor  bool   `yaml:"no_color"`
	Format   string `yaml:"format" validate:"oneof=yaml json text"`
	Mapper   string `yaml:"mapper,omitempty"`
	Stdout   bool   `yaml:"stdout"`
	All      bool   `yaml:"all"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. A relative mapper path is
// taken relative to the config file.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Mapper != "" && !filepath.IsAbs(cfg.Mapper) {
		cfg.Mapper = filepath.Join(filepath.Dir(path), cfg.Mapper)
	}

	return &cfg, path, nil
}

// DefaultConfig returns the settings used without a config file
func DefaultConfig() *Config {
	return &Config{
		LogLevel: defaultLogLevel,
		Format:   defaultFormat,
	}
}

// Validate checks the field values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Format == "" {
		c.Format = defaultFormat
	}
}
