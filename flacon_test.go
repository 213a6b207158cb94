package flacon_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flacon "github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/pkg/adapters/approx"
	"github.com/ateliers3d/flacon/pkg/adapters/memory"
	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

func TestGenerate_DefaultBottle(t *testing.T) {
	dir := t.TempDir()
	gen := flacon.New(approx.NewProvider())

	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "bottle-1",
		OutputDir: dir,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "bottle-1", result.ModelID)
	assert.Empty(t, result.Error)

	require.NotNil(t, result.Files)
	for _, path := range []*string{result.Files.Step, result.Files.Stl, result.Files.Brep} {
		require.NotNil(t, path)
		info, statErr := os.Stat(*path)
		require.NoError(t, statErr)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Equal(t, filepath.Join(dir, "bottle-1.step"), *result.Files.Step)

	// 40mm body radius, 150mm body plus 30mm neck.
	require.NotNil(t, result.Preview)
	box := result.Preview.BoundingBox
	assert.InDelta(t, 80.0, box.Dimensions[0], 1e-9)
	assert.InDelta(t, 80.0, box.Dimensions[1], 1e-9)
	assert.InDelta(t, 180.0, box.Dimensions[2], 1e-9)
	assert.InDelta(t, 0.0, box.Min[2], 1e-9)

	require.NotNil(t, result.Parameters)
	assert.Equal(t, 40.0, result.Parameters.BodyRadius)
}

func TestGenerate_ParameterOverrides(t *testing.T) {
	dir := t.TempDir()
	gen := flacon.New(approx.NewProvider())

	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "tall",
		OutputDir: dir,
		Parameters: map[string]any{
			"bodyHeight": 200,
			"bodyRadius": "25", // weakly typed on purpose
			"threadType": "M24x2",
		},
	})
	require.NoError(t, err)

	box := result.Preview.BoundingBox
	assert.InDelta(t, 50.0, box.Dimensions[0], 1e-9)
	// 200mm body plus the M24x2 neck height max(20, 16) = 20.
	assert.InDelta(t, 220.0, box.Dimensions[2], 1e-9)
	assert.Equal(t, "M24x2", result.Parameters.ThreadType)

	// The echoed parameter set is the resolved one: omitted fields carry
	// their defaults.
	assert.Equal(t, 3.0, result.Parameters.WallThickness)
}

func TestGenerate_MissingModelID(t *testing.T) {
	gen := flacon.New(approx.NewProvider())

	result, err := gen.Generate(context.Background(), flacon.Request{})
	require.ErrorIs(t, err, domain.ErrMissingModelID)
	assert.Nil(t, result)
}

func TestGenerate_PersistsResult(t *testing.T) {
	store := memory.NewStore()
	gen := flacon.New(approx.NewProvider(), flacon.WithStore(store))

	_, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "kept",
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", loaded.ModelID)
	assert.True(t, loaded.Success)
}

// stlFailingSession wraps a real session but fails every STL export, to
// prove one format failing does not block the others.
type stlFailingSession struct {
	ports.KernelSession
}

func (s stlFailingSession) ExportSTL(sol ports.Solid, path string, deflection float64) error {
	return errors.New("mesher crashed")
}

type stlFailingProvider struct {
	inner ports.KernelProvider
}

func (p stlFailingProvider) Open(ctx context.Context) (ports.KernelSession, error) {
	session, err := p.inner.Open(ctx)
	if err != nil {
		return nil, err
	}
	return stlFailingSession{KernelSession: session}, nil
}

func TestGenerate_ExportFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	gen := flacon.New(stlFailingProvider{inner: approx.NewProvider()})

	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "partial",
		OutputDir: dir,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Nil(t, result.Files.Stl)
	require.NotNil(t, result.Files.Step)
	require.NotNil(t, result.Files.Brep)
	_, statErr := os.Stat(*result.Files.Step)
	assert.NoError(t, statErr)
}

// bboxFailingSession wraps a real session but fails every bounding-box
// computation. The request must still succeed with a zero box and all
// exports attempted.
type bboxFailingSession struct {
	ports.KernelSession
}

func (s bboxFailingSession) BoundingBox(sol ports.Solid) (domain.BoundingBox, error) {
	return domain.BoundingBox{}, errors.New("bounds unavailable")
}

type bboxFailingProvider struct {
	inner ports.KernelProvider
}

func (p bboxFailingProvider) Open(ctx context.Context) (ports.KernelSession, error) {
	session, err := p.inner.Open(ctx)
	if err != nil {
		return nil, err
	}
	return bboxFailingSession{KernelSession: session}, nil
}

func TestGenerate_BoundingBoxFailureYieldsZeroBox(t *testing.T) {
	dir := t.TempDir()
	gen := flacon.New(bboxFailingProvider{inner: approx.NewProvider()})

	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "no-bounds",
		OutputDir: dir,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.Preview)
	assert.Equal(t, domain.ZeroBox(), result.Preview.BoundingBox)

	// Exports are unaffected by the bounding-box failure.
	require.NotNil(t, result.Files)
	for _, path := range []*string{result.Files.Step, result.Files.Stl, result.Files.Brep} {
		require.NotNil(t, path)
		_, statErr := os.Stat(*path)
		assert.NoError(t, statErr)
	}
}

type failingProvider struct{}

func (failingProvider) Open(ctx context.Context) (ports.KernelSession, error) {
	return nil, errors.New("worker did not start")
}

func TestGenerate_ProviderFailure(t *testing.T) {
	gen := flacon.New(failingProvider{})

	result, err := gen.Generate(context.Background(), flacon.Request{ModelID: "x"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "open kernel session")
}
