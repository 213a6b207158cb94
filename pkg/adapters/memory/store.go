// Package memory implements ports.ModelStore in memory, for tests and
// single-process deployments that do not need results to survive restarts.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// Store implements ports.ModelStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save persists the result in memory. Results are stored serialized so a
// caller can never mutate stored state through a retained pointer.
func (s *Store) Save(ctx context.Context, modelID string, result *domain.GenerationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[modelID] = data
	return nil
}

// Load retrieves the result from memory.
func (s *Store) Load(ctx context.Context, modelID string) (*domain.GenerationResult, error) {
	s.mu.RLock()
	data, ok := s.data[modelID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrModelNotFound
	}

	var result domain.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes the result.
func (s *Store) Delete(ctx context.Context, modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, modelID)
	return nil
}

// List returns stored model IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
