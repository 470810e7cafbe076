// Package cache holds generation responses keyed by meal identity so
// repeated requests skip the upstream model call.
package cache

import (
	"context"
	"fmt"

	"meal-planner/internal/infrastructure/config"
)

// Store is the key-value interface the generation services depend on.
// Implementations are non-authoritative: every entry can be rebuilt from
// the upstream model at any time.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put stores value under key, replacing any previous entry.
	Put(ctx context.Context, key, value string) error
	Close() error
}

// NewStore builds the Store selected by cfg.Cache.Backend. Returns nil
// when caching is disabled; the services treat a nil Store as a permanent
// miss.
func NewStore(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "memory":
		return NewMemoryStore(cfg), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
