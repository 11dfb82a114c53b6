package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is an in-memory implementation of driven.ManifestStore.
type ManifestStore struct {
	mu    sync.RWMutex
	roots map[string]map[string]domain.ManifestEntry
}

// NewManifestStore creates a new in-memory manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{
		roots: make(map[string]map[string]domain.ManifestEntry),
	}
}

// Replace swaps the recorded entries for root.
func (s *ManifestStore) Replace(_ context.Context, root string, entries []domain.ManifestEntry) error {
	byKey := make(map[string]domain.ManifestEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[root] = byKey
	return nil
}

// List returns the recorded entries for root, sorted by key.
func (s *ManifestStore) List(_ context.Context, root string) ([]domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ManifestEntry, 0, len(s.roots[root]))
	for _, e := range s.roots[root] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Get returns one recorded entry.
func (s *ManifestStore) Get(_ context.Context, root, key string) (*domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.roots[root][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}
