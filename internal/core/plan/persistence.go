// Package plan holds the user's mutable planning state: the grocery bag,
// favorite meals, and the meal schedule. Each store owns one namespaced
// key in a shared persistence layer and writes through on every mutation.
package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Persistence is the durable key-value layer behind the plan stores.
type Persistence interface {
	// Load reads the value stored under key into v; the bool reports
	// whether the key existed.
	Load(key string, v interface{}) (bool, error)
	// Save writes v under key, replacing any previous value.
	Save(key string, v interface{}) error
}

// FileStore persists each key as a JSON file in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Load reads key's JSON file into v.
func (f *FileStore) Load(key string, v interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes v as JSON under key, via a temp file so a crash mid-write
// cannot corrupt the previous value.
func (f *FileStore) Save(key string, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// MemoryPersistence keeps values in memory; used in tests and as the
// degraded mode when no data directory is writable.
type MemoryPersistence struct {
	mu    sync.Mutex
	items map[string]json.RawMessage
}

// NewMemoryPersistence creates an empty in-memory persistence layer.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{items: make(map[string]json.RawMessage)}
}

// Load reads key into v.
func (m *MemoryPersistence) Load(key string, v interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// Save stores v under key.
func (m *MemoryPersistence) Save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

// persist saves and logs on failure; stores treat persistence errors as
// non-fatal since state remains correct in memory.
func persist(p Persistence, key string, v interface{}) {
	if p == nil {
		return
	}
	if err := p.Save(key, v); err != nil {
		common.LogWarn("failed to persist plan state",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
