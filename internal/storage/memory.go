package storage

import (
	"context"
	"sync"
)

// MemoryKV is an in-process backend. It backs the tab-scoped transient
// store and test fixtures. A non-zero quota caps the total stored
// bytes, mirroring platform storage limits.
type MemoryKV struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int64
	used  int64
}

// NewMemoryKV builds an empty in-memory backend. quotaBytes <= 0 means
// unlimited.
func NewMemoryKV(quotaBytes int64) *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte), quota: quotaBytes}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.used - int64(len(m.data[key])) + int64(len(value))
	if m.quota > 0 && next > m.quota {
		return ErrQuotaExceeded
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	m.used = next
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.data[key]; ok {
		m.used -= int64(len(value))
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryKV) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.used = 0
	return nil
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *MemoryKV) Close() error {
	return nil
}
