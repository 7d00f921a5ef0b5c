package storage

import (
	"errors"
	"sync"
)

// MemoryStore is a map-backed KeyValue. Nothing survives a restart; it backs
// tests and sessions where no durable store could be opened.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// UnavailableStore fails every operation. It stands in for a context where
// local persistence cannot be tracked at all, which callers like the
// dismissal gate treat specially.
type UnavailableStore struct{}

var errStorageUnavailable = errors.New("storage unavailable")

func (UnavailableStore) Get(key string) (string, error) { return "", errStorageUnavailable }
func (UnavailableStore) Set(key, value string) error    { return errStorageUnavailable }
func (UnavailableStore) Delete(key string) error        { return errStorageUnavailable }
func (UnavailableStore) Close() error                   { return nil }
