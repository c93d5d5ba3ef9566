// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the API's runtime settings.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	// DatabaseURL selects the Postgres job source. Empty means in-memory jobs.
	DatabaseURL string `env:"DATABASE_URL"`
	// StageGraphFile overrides the built-in stage graph with a YAML file.
	StageGraphFile string `env:"STAGE_GRAPH_FILE"`
}

// Load reads an optional .env file from the working directory, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
