// Package config holds shared constants and the adaptive.yaml run
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level adaptive.yaml configuration.
type Config struct {
	Inlining   Inlining   `yaml:"inlining"`
	Containers Containers `yaml:"containers"`
	Profile    Profile    `yaml:"profile"`
	Log        Log        `yaml:"log"`
}

// Inlining controls call-site body splicing.
type Inlining struct {
	Enabled bool `yaml:"enabled"`

	// Threshold is the number of cached calls after which a site inlines.
	Threshold int64 `yaml:"threshold"`
}

type Containers struct {
	// InitialCapacity is reserved for lists created empty.
	InitialCapacity int `yaml:"initial_capacity"`
}

type Profile struct {
	// Database is the sqlite file runs are persisted to. Empty disables
	// persistence.
	Database string `yaml:"database,omitempty"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Inlining:   Inlining{Threshold: DefaultInlineThreshold},
		Containers: Containers{InitialCapacity: DefaultInitialCapacity},
		Log:        Log{Level: DefaultLogLevel},
	}
}

// LoadConfig reads and parses an adaptive.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses adaptive.yaml content from bytes. Keys missing from
// the document keep their defaults. The path argument is used only for
// error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig searches for adaptive.yaml starting from dir and walking up
// to parent directories. It returns "" and a nil error when nothing is
// found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate reports every semantic problem at once.
func (c *Config) validate(path string) error {
	var result *multierror.Error

	if c.Inlining.Threshold < 0 {
		result = multierror.Append(result, fmt.Errorf("%s: inlining.threshold must be >= 0, got %d", path, c.Inlining.Threshold))
	}
	if c.Containers.InitialCapacity < 0 {
		result = multierror.Append(result, fmt.Errorf("%s: containers.initial_capacity must be >= 0, got %d", path, c.Containers.InitialCapacity))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("%s: log.level: %w", path, err))
	}
	if c.Profile.Database != "" && strings.HasSuffix(c.Profile.Database, string(filepath.Separator)) {
		result = multierror.Append(result, fmt.Errorf("%s: profile.database %q is a directory", path, c.Profile.Database))
	}

	return result.ErrorOrNil()
}

func (c *Config) setDefaults() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// LogLevel returns the parsed log level. It is only meaningful on a
// validated config.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}
