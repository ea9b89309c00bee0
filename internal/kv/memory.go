package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memoryStore implements Store with an in-process map. It backs unit tests
// and local development when no NATS server is configured.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory key-value store.
func NewMemory() Store {
	return &memoryStore{
		data: make(map[string][]byte),
	}
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores value under key, replacing any existing value.
func (s *memoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes the value under key. Deleting an absent key is not an error.
func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Keys returns all keys starting with prefix, in lexical order.
func (s *memoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)
	return keys, nil
}
