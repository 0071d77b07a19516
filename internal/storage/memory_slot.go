package storage

import (
	"context"
	"sync"
)

type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (s *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySlot) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlot) Close() error { return nil }
