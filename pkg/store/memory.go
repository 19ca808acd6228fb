package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory returns a Backend that keeps values in process memory. It is the
// last resort when no on-disk backend can be opened, and the test backend.
func Memory() Backend {
	return &memoryBackend{data: make(map[string][]byte)}
}

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (m *memoryBackend) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *memoryBackend) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *memoryBackend) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryBackend) Close() error { return nil }
