package flacon_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/pkg/adapters/approx"
)

// ExampleGenerator_Generate demonstrates using flacon as a library with the
// built-in approximate kernel. Production deployments point the generator at
// a B-rep kernel worker instead (see the occtbridge adapter).
func ExampleGenerator_Generate() {
	dir, err := os.MkdirTemp("", "flacon-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// 1. Create a generator on top of a kernel provider.
	gen := flacon.New(approx.NewProvider())

	// 2. Describe the bottle. Anything not set here keeps its default.
	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "demo",
		OutputDir: dir,
		Parameters: map[string]any{
			"bodyHeight": 200,
			"bodyRadius": 30,
			"threadType": "M24x2",
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// 3. Inspect the outcome. File paths are nil for formats that failed.
	dims := result.Preview.BoundingBox.Dimensions
	fmt.Printf("success: %v\n", result.Success)
	fmt.Printf("size: %.0fx%.0fx%.0f mm\n", dims[0], dims[1], dims[2])
	fmt.Printf("step exported: %v\n", result.Files.Step != nil)

	// Output:
	// success: true
	// size: 60x60x220 mm
	// step exported: true
}
