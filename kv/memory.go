package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/LoohanZinho/joraps/errors"
)

// MemStore is an in-memory Store. Values round-trip through JSON so that
// type behavior matches FileStore exactly.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Get decodes the value for key into out.
func (s *MemStore) Get(_ context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Storage(fmt.Errorf("kv: decode %s: %w", key, err))
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (s *MemStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Storage(fmt.Errorf("kv: encode %s: %w", key, err))
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemStore)(nil)
