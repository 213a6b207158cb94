package ports

import (
	"context"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// ModelStore persists generation results so frontends can fetch a model's
// files and preview data after the fact.
type ModelStore interface {
	// Save persists the result for a model ID, overwriting any previous one.
	Save(ctx context.Context, modelID string, result *domain.GenerationResult) error

	// Load retrieves the result for a model ID.
	// Returns domain.ErrModelNotFound if the model does not exist.
	Load(ctx context.Context, modelID string) (*domain.GenerationResult, error)

	// Delete removes the result for a model ID. Deleting a missing model
	// is not an error.
	Delete(ctx context.Context, modelID string) error

	// List returns the stored model IDs.
	List(ctx context.Context) ([]string, error)
}
