package config

import (
	"authscan/internal/types"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAuthLogPath = "logs/auth.log"
	DefaultThreshold   = 5
	DefaultFormat      = "text"
)

// Default returns a config with every default applied
func Default() *types.Config {
	var cfg types.Config
	_ = validateConfig(&cfg)
	return &cfg
}

// Validate re-checks a config after command-line overrides
func Validate(cfg *types.Config) error {
	return validateConfig(cfg)
}

// LoadConfig reads the configuration from the given path
func LoadConfig(path string) (*types.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg types.Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig applies defaults and hard rules
func validateConfig(cfg *types.Config) error {
	if cfg.Input.AuthLogPath == "" {
		cfg.Input.AuthLogPath = DefaultAuthLogPath
	}

	if cfg.Detection.FailedLoginThreshold == nil {
		t := DefaultThreshold
		cfg.Detection.FailedLoginThreshold = &t
	} else if *cfg.Detection.FailedLoginThreshold < 0 {
		return fmt.Errorf("detection.failed_login_threshold must be >= 0, got %d", *cfg.Detection.FailedLoginThreshold)
	}

	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = DefaultFormat
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", cfg.Output.Format)
	}

	if cfg.Output.WarnMalformed == nil {
		warn := true
		cfg.Output.WarnMalformed = &warn
	}
	return nil
}
