// Package factory wires the application's components together.
package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jfellows/userdir/internal/services/users"
	"github.com/jfellows/userdir/internal/storage"
	"github.com/jfellows/userdir/internal/storage/memory"
	redisstorage "github.com/jfellows/userdir/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Store storage.Store
	Users *users.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SkipSeed leaves an empty store empty instead of loading the fixed
	// seed records
	SkipSeed bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var store storage.Store
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis storage requires a redis config")
		}
		rs, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}

	svc := users.New(store, logger)

	if !cfg.SkipSeed {
		if err := svc.EnsureSeed(context.Background()); err != nil {
			return nil, fmt.Errorf("seed user store: %w", err)
		}
	}

	return &App{
		Store: store,
		Users: svc,
	}, nil
}
