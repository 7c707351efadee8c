// Package memory provides in-memory port implementations, used by tests
// and as defaults when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/awkspace/runfile/pkg/domain"
)

// Store implements ports.CacheStore in process memory.
type Store struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheEntry
	vars    map[string]string
}

// NewStore creates an empty in-memory cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*domain.CacheEntry),
		vars:    make(map[string]string),
	}
}

// Get retrieves the entry stored under key.
func (s *Store) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

// Put stores the entry under key.
func (s *Store) Put(ctx context.Context, key string, entry *domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries[key] = &copied
	return nil
}

// Delete removes the entry stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// LoadVars returns the store-wide variable map.
func (s *Store) LoadVars(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vars := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		vars[k] = v
	}
	return vars, nil
}

// SetVar sets a store-wide variable, primarily for tests.
func (s *Store) SetVar(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[key] = value
}
