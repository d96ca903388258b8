// Copyright 2023 Canonical Ltd.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEnvFile  = ".env"
	DefaultTarget   = "web/env.js"
	DefaultLogLevel = "warn"
)

// Config holds the locations and options used to build the web environment
// file. Relative paths are resolved against Root.
type Config struct {
	// Root is the project directory the other paths are relative to.
	Root string `yaml:"root"`
	// EnvFile is the KEY=VALUE file providing placeholder values.
	EnvFile string `yaml:"envFile"`
	// Template is the file holding {{KEY}} placeholders. If empty, Target
	// is used and rewritten in place.
	Template string `yaml:"template"`
	// Target is the file the rendered output is written to.
	Target string `yaml:"target"`
	// Atomic writes the target through a temporary file and a rename.
	Atomic bool `yaml:"atomic"`
	// LogLevel is the minimum zap level logged (debug, info, warn, error).
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration used when nothing else is provided:
// ".env" and "web/env.js" under the current directory, rewritten in place.
func Default() Config {
	return Config{
		Root:     ".",
		EnvFile:  DefaultEnvFile,
		Target:   DefaultTarget,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML config from path. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config file corrupted: %w", err)
	}
	return &cfg, nil
}

// Location returns the default config file location for the given service
// name following the pattern of ~/.config/serviceName/config.yaml.
func Location(serviceName string) string {
	if p := os.Getenv("XDG_CONFIG_HOME"); p != "" {
		return filepath.Join(p, serviceName, "config.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", serviceName, "config.yaml")
}

// EnvPath returns the resolved location of the environment file.
func (c Config) EnvPath() string {
	return c.resolve(c.EnvFile)
}

// TemplatePath returns the resolved template location, which is the target
// when no template is configured.
func (c Config) TemplatePath() string {
	if c.Template == "" {
		return c.TargetPath()
	}
	return c.resolve(c.Template)
}

// TargetPath returns the resolved location of the rendered output.
func (c Config) TargetPath() string {
	return c.resolve(c.Target)
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}
