// Package config loads tool defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds environment-driven defaults. Command-line flags override
// these values.
type Config struct {
	SourceDir         string `env:"LABEXT_SOURCE_DIR" envDefault:"."`
	DistDir           string `env:"LABEXT_DIST_DIR" envDefault:"dist"`
	Prefix            string `env:"LABEXT_PREFIX" envDefault:"/usr/local"`
	AppName           string `env:"LABEXT_APP_NAME" envDefault:"jupyterlab"`
	SigningKey        string `env:"LABEXT_SIGNING_KEY"`
	NPMTimeoutMinutes int    `env:"LABEXT_NPM_TIMEOUT" envDefault:"10"`
}

// Load reads configuration from a .env file (when present) and the process
// environment
func Load() (*Config, error) {
	// Missing .env files are fine, the environment still applies
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in defaults without consulting the process
// environment. The envDefault tags are the single source of default values.
func Default() *Config {
	cfg := &Config{}
	// Parsing against an empty environment can only apply the tag defaults
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	return cfg
}
