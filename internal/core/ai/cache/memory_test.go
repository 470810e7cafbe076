package cache

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Hour,
		},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	m := NewMemoryStore(memoryConfig(10, time.Minute))
	defer m.Close()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "recipe:omelette", `{"steps":[]}`))

	val, ok, err := m.Get(ctx, "recipe:omelette")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"steps":[]}`, val)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	m := NewMemoryStore(memoryConfig(10, 10*time.Millisecond))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v"))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	m := NewMemoryStore(memoryConfig(10, time.Minute))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v1"))
	require.NoError(t, m.Put(ctx, "k", "v2"))

	val, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v2", val)
}

func TestMemoryStoreLRUEviction(t *testing.T) {
	m := NewMemoryStore(memoryConfig(2, time.Minute))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "a", "1"))
	require.NoError(t, m.Put(ctx, "b", "2"))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok, _ := m.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, m.Put(ctx, "c", "3"))

	_, ok, _ = m.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryStoreStats(t *testing.T) {
	m := NewMemoryStore(memoryConfig(10, time.Minute))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v"))
	m.Get(ctx, "k")
	m.Get(ctx, "missing")

	stats := m.Stats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestMemoryStoreCloseIdempotent(t *testing.T) {
	m := NewMemoryStore(memoryConfig(10, time.Minute))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore(&config.Config{Cache: config.CacheConfig{Enabled: false}})
	require.NoError(t, err)
	assert.Nil(t, store)
}
