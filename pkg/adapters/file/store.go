// Package file implements ports.ModelStore on the local filesystem,
// keeping one JSON document per model next to the exported files.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// Store implements ports.ModelStore using the local filesystem.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".flacon/models".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".flacon", "models")
	}
	return &Store{BasePath: basePath}
}

// Save persists the result to a JSON file.
func (f *Store) Save(ctx context.Context, modelID string, result *domain.GenerationResult) error {
	if modelID == "" {
		return domain.ErrMissingModelID
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure model directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	path := filepath.Join(f.BasePath, modelID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load retrieves the result from its JSON file.
func (f *Store) Load(ctx context.Context, modelID string) (*domain.GenerationResult, error) {
	if modelID == "" {
		return nil, domain.ErrMissingModelID
	}

	data, err := os.ReadFile(filepath.Join(f.BasePath, modelID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var result domain.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Delete removes the model file.
func (f *Store) Delete(ctx context.Context, modelID string) error {
	if modelID == "" {
		return domain.ErrMissingModelID
	}

	err := os.Remove(filepath.Join(f.BasePath, modelID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete model file: %w", err)
	}
	return nil
}

// List returns all stored model IDs.
func (f *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}
	return ids, nil
}
