package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// RunModelStoreContract is a reusable suite that verifies an adapter
// complies with the ModelStore semantics. Every store implementation runs
// it against a fresh, empty store.
func RunModelStoreContract(t *testing.T, store ModelStore) {
	t.Helper()
	ctx := context.Background()

	path := "/tmp/out/bottle-1.step"
	result := &domain.GenerationResult{
		Success: true,
		ModelID: "bottle-1",
		Files:   &domain.FileSet{Step: &path},
		Preview: &domain.Preview{
			BoundingBox: domain.NewBoundingBox(
				[3]float64{-40, -40, 0}, [3]float64{40, 40, 180}),
		},
	}

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		if !errors.Is(err, domain.ErrModelNotFound) {
			t.Fatalf("expected ErrModelNotFound, got %v", err)
		}
	})

	t.Run("Save_Load", func(t *testing.T) {
		if err := store.Save(ctx, "bottle-1", result); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "bottle-1")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !loaded.Success || loaded.ModelID != "bottle-1" {
			t.Errorf("loaded result mismatch: %+v", loaded)
		}
		if loaded.Files == nil || loaded.Files.Step == nil || *loaded.Files.Step != path {
			t.Errorf("step path not preserved: %+v", loaded.Files)
		}
		if loaded.Preview.BoundingBox.Dimensions != [3]float64{80, 80, 180} {
			t.Errorf("bounding box not preserved: %+v", loaded.Preview.BoundingBox)
		}
	})

	t.Run("Load_Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, "bottle-1")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		loaded.Success = false

		again, err := store.Load(ctx, "bottle-1")
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if !again.Success {
			t.Error("mutating a loaded result leaked into the store")
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Save(ctx, "bottle-2", result); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		lookup := make(map[string]bool, len(ids))
		for _, id := range ids {
			lookup[id] = true
		}
		if !lookup["bottle-1"] || !lookup["bottle-2"] {
			t.Errorf("expected bottle-1 and bottle-2 in %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "bottle-1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "bottle-1"); !errors.Is(err, domain.ErrModelNotFound) {
			t.Fatalf("expected ErrModelNotFound after delete, got %v", err)
		}

		// Deleting a missing model is a no-op.
		if err := store.Delete(ctx, "bottle-1"); err != nil {
			t.Fatalf("second delete failed: %v", err)
		}
	})
}
