// Package config loads scanner settings from a YAML or JSON file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"failsafe/internal/failsafe"
	"failsafe/internal/logging"
	"failsafe/internal/report"
	"failsafe/internal/store"
)

// DefaultPath is looked up when no --config flag is given.
const DefaultPath = ".failsafe/config.yaml"

// Environment overrides.
const (
	EnvOutput   = "FAILSAFE_OUTPUT"
	EnvStore    = "FAILSAFE_STORE"
	EnvLogLevel = "FAILSAFE_LOG_LEVEL"
)

// Config holds scanner settings.
type Config struct {
	Output    string         `json:"output" yaml:"output"`
	OutputDir string         `json:"output_dir" yaml:"output_dir"`
	Store     string         `json:"store" yaml:"store"`
	Record    bool           `json:"record" yaml:"record"`
	Workers   int            `json:"workers" yaml:"workers"`
	LogLevel  string         `json:"log_level" yaml:"log_level"`
	LogFormat string         `json:"log_format" yaml:"log_format"`
	Rules     failsafe.Rules `json:"rules" yaml:"rules"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:    report.DefaultPath,
		OutputDir: ".",
		Store:     store.DefaultDBPath,
		Workers:   4,
		LogLevel:  "info",
		LogFormat: "text",
		Rules:     failsafe.DefaultRules(),
	}
}

// LoadFromPath reads a config file (YAML or JSON) over the defaults.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// LoadOptional is LoadFromPath that returns the defaults when path does not exist.
func LoadOptional(path string) (Config, error) {
	cfg, err := LoadFromPath(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load parses config from bytes over the defaults. ext is the file extension
// used as a format hint; when empty the format is detected from content.
func Load(data []byte, ext string) (Config, error) {
	cfg := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config json: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FAILSAFE_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	var errs []error
	if c.Rules.Marker == "" || c.Rules.NormalMarker == "" || c.Rules.ReversedMarker == "" {
		errs = append(errs, errors.New("rules: marker, normal_marker and reversed_marker must be non-empty"))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	return errors.Join(errs...)
}
