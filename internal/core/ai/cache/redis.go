package cache

import (
	"context"
	"fmt"

	"meal-planner/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store backed by a redis instance, for deployments that
// want generation results to survive restarts.
type RedisStore struct {
	client *redis.Client
	config *config.Config
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached value for key if present.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.namespaced(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return val, true, nil
}

// Put stores value under key with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.namespaced(key), value, s.config.Cache.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) namespaced(key string) string {
	return "mealplanner:gen:" + key
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
