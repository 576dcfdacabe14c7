// Package persistence provides vehicle.Store implementations.
package persistence

import (
	"context"
	"sync"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

// MemoryStore implements vehicle.Store with an in-process map.
// It never returns an error.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]vehicle.Enrichments
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int64]vehicle.Enrichments)}
}

// Get returns the enrichment set for fin.
func (s *MemoryStore) Get(_ context.Context, fin int64) (vehicle.Enrichments, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[fin]
	return e, ok, nil
}

// Put replaces the enrichment set for fin.
func (s *MemoryStore) Put(_ context.Context, fin int64, enrichments vehicle.Enrichments) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[fin] = enrichments
	return nil
}

// Ensure creates an empty entry for fin if none exists.
func (s *MemoryStore) Ensure(_ context.Context, fin int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[fin]; !ok {
		s.entries[fin] = vehicle.Enrichments{}
	}
	return nil
}

// Len returns the number of initialized keys.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}
