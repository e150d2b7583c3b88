package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// FingerprintStore is an in-memory implementation of driven.FingerprintStore.
type FingerprintStore struct {
	mu           sync.RWMutex
	fingerprints map[string]domain.Fingerprint
}

// NewFingerprintStore creates a new in-memory fingerprint store.
func NewFingerprintStore() *FingerprintStore {
	return &FingerprintStore{
		fingerprints: make(map[string]domain.Fingerprint),
	}
}

// Save stores or replaces the fingerprint of a file.
func (s *FingerprintStore) Save(_ context.Context, fp domain.Fingerprint) error {
	if fp.FileName == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[fp.FileName] = fp
	return nil
}

// Get retrieves the fingerprint of a file.
func (s *FingerprintStore) Get(_ context.Context, fileName string) (domain.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.fingerprints[fileName]
	if !ok {
		return domain.Fingerprint{}, domain.ErrNotFound
	}
	return fp, nil
}

// List returns all fingerprints ordered by file name.
func (s *FingerprintStore) List(_ context.Context) ([]domain.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Fingerprint, 0, len(s.fingerprints))
	for _, name := range slices.Sorted(maps.Keys(s.fingerprints)) {
		result = append(result, s.fingerprints[name])
	}
	return result, nil
}

// Delete removes the fingerprint of a file.
func (s *FingerprintStore) Delete(_ context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fingerprints, fileName)
	return nil
}
