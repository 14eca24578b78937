// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Host        string `env:"USERDIR_HOST"`
	Port        int    `env:"USERDIR_PORT" envDefault:"8080"`
	StorageType string `env:"USERDIR_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"USERDIR_REDIS_URL"`
	LogLevel    string `env:"USERDIR_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level to a slog level. Unknown values
// fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
