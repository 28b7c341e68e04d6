// Package store provides the persistence adapter: an opaque key-value
// contract over which the root collection is mirrored as JSON text, with a
// SQLite implementation for the binaries and an in-memory one for tests.
package store

import (
	"context"
	"sync"
)

// KV is the durable key-value contract. Get reports ok=false when the key
// is absent; Set overwrites unconditionally.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV is a KV held in process memory.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
