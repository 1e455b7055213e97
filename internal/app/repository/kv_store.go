package repository

import (
	"context"
	"encoding/json"
	"sync"
)

// KeyValueStore is the storage port behind the local tier.
// Get reports found=false for a missing key rather than an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type memoryKeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKeyValueStore returns a process-local KeyValueStore.
func NewMemoryKeyValueStore() KeyValueStore {
	return &memoryKeyValueStore{data: make(map[string][]byte)}
}

func (m *memoryKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *memoryKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *memoryKeyValueStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// readJSON decodes the value at key into out; a missing key leaves out untouched.
func readJSON(ctx context.Context, kv KeyValueStore, key string, out interface{}) (bool, error) {
	data, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(ctx context.Context, kv KeyValueStore, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, data)
}
