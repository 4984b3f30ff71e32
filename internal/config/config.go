// Package config loads specdock configuration from YAML with environment
// overrides. A missing config file is not an error; defaults apply and a
// warning is logged.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/specdock/specdock/internal/logging"
)

const appName = "specdock"

// Config holds all server settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Documents DocumentsConfig `yaml:"documents"`
	APISpecs  APISpecsConfig  `yaml:"api_specs"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type DocumentsConfig struct {
	BasePath         string   `yaml:"base_path"`
	SupportedFormats []string `yaml:"supported_formats"`
}

type APISpecsConfig struct {
	BasePath string `yaml:"base_path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultPath returns the standard config location for the platform.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:    ServerConfig{Name: appName, Version: "0.1.0"},
		Documents: DocumentsConfig{BasePath: "./requirements"},
		APISpecs:  APISpecsConfig{BasePath: "./api-specs"},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads the config from path, or from the default location when path
// is empty. Environment variables SPECDOCK_DOCS_DIR, SPECDOCK_SPECS_DIR,
// and SPECDOCK_LOG_LEVEL override file values.
func Load(path string, logger *logging.AppLogger) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Warn("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Name == "" {
		cfg.Server.Name = def.Server.Name
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = def.Server.Version
	}
	if cfg.Documents.BasePath == "" {
		cfg.Documents.BasePath = def.Documents.BasePath
	}
	if cfg.APISpecs.BasePath == "" {
		cfg.APISpecs.BasePath = def.APISpecs.BasePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SPECDOCK_DOCS_DIR"); v != "" {
		cfg.Documents.BasePath = v
	}
	if v := os.Getenv("SPECDOCK_SPECS_DIR"); v != "" {
		cfg.APISpecs.BasePath = v
	}
	if v := os.Getenv("SPECDOCK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
