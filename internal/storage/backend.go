// Package storage persists the board snapshot to local durable storage.
//
// A Backend is a minimal key/value store; Store layers the BoardState
// envelope on top of it and handles export and import of snapshot files.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Backend.Get when the key holds no payload.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores opaque payloads under string keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Close() error
}

// MemoryBackend keeps payloads in process memory. Used for ephemeral runs and
// tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the payload stored under key.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the payload stored under key.
func (m *MemoryBackend) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
