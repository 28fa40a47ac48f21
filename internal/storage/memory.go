package storage

import (
	"context"
	"sync"
)

// MemoryStore хранит блобы в памяти процесса. Используется в тестах и как
// эталон однопоточного поведения.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

// Get возвращает значение по ключу.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.blobs[key]
	return value, ok, nil
}

// Put сохраняет значение по ключу.
func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

// Delete удаляет ключ.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
