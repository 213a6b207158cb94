package approx

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

func openSession(t *testing.T) ports.KernelSession {
	t.Helper()
	session, err := NewProvider().Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestCylinderBoundingBox(t *testing.T) {
	s := openSession(t)

	cyl, err := s.Cylinder(ports.ZAxisAt(0), 40, 150)
	require.NoError(t, err)

	box, err := s.BoundingBox(cyl)
	require.NoError(t, err)
	assert.InDelta(t, -40, box.Min[0], 1e-9)
	assert.InDelta(t, 40, box.Max[0], 1e-9)
	assert.InDelta(t, 0, box.Min[2], 1e-9)
	assert.InDelta(t, 150, box.Max[2], 1e-9)
	assert.Equal(t, [3]float64{80, 80, 150}, box.Dimensions)
	assert.Equal(t, [3]float64{0, 0, 75}, box.Center)
}

func TestConeUsesLargerRadius(t *testing.T) {
	s := openSession(t)

	cone, err := s.Cone(ports.ZAxisAt(0), 40, 10, 100)
	require.NoError(t, err)

	box, err := s.BoundingBox(cone)
	require.NoError(t, err)
	assert.InDelta(t, 80, box.Dimensions[0], 1e-9)
}

func TestDownAxisExtendsBelowOrigin(t *testing.T) {
	s := openSession(t)

	punt, err := s.Cylinder(ports.DownAxisAt(0), 36, 2.5)
	require.NoError(t, err)

	box, err := s.BoundingBox(punt)
	require.NoError(t, err)
	assert.InDelta(t, -2.5, box.Min[2], 1e-9)
	assert.InDelta(t, 0, box.Max[2], 1e-9)
}

func TestFuseUnionsBounds(t *testing.T) {
	s := openSession(t)

	body, err := s.Cylinder(ports.ZAxisAt(0), 40, 150)
	require.NoError(t, err)
	neck, err := s.Cylinder(ports.ZAxisAt(150), 10, 30)
	require.NoError(t, err)

	bottle, err := s.Fuse(body, neck)
	require.NoError(t, err)

	box, err := s.BoundingBox(bottle)
	require.NoError(t, err)
	assert.InDelta(t, 180, box.Max[2], 1e-9)
	assert.InDelta(t, 40, box.Max[0], 1e-9)
}

func TestCutKeepsBaseBounds(t *testing.T) {
	s := openSession(t)

	outer, err := s.Cylinder(ports.ZAxisAt(0), 40, 150)
	require.NoError(t, err)
	inner, err := s.Cylinder(ports.ZAxisAt(0), 37, 147)
	require.NoError(t, err)

	hollow, err := s.Cut(outer, inner)
	require.NoError(t, err)

	box, err := s.BoundingBox(hollow)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{80, 80, 150}, box.Dimensions)
}

func TestTranslateThenRotate(t *testing.T) {
	s := openSession(t)

	rib, err := s.Cylinder(ports.ZAxisAt(0), 2, 90)
	require.NoError(t, err)
	rib, err = s.Translate(rib, 41, 0, 30)
	require.NoError(t, err)
	rib, err = s.RotateZ(rib, math.Pi/2)
	require.NoError(t, err)

	box, err := s.BoundingBox(rib)
	require.NoError(t, err)
	// A quarter turn moves the rib center from +X to +Y.
	assert.InDelta(t, 41, (box.Min[1]+box.Max[1])/2, 1e-9)
	assert.InDelta(t, 0, (box.Min[0]+box.Max[0])/2, 1e-9)
	assert.InDelta(t, 30, box.Min[2], 1e-9)
	assert.InDelta(t, 120, box.Max[2], 1e-9)
}

func TestNonPositiveDimensionsRejected(t *testing.T) {
	s := openSession(t)

	_, err := s.Cylinder(ports.ZAxisAt(0), 0, 10)
	assert.Error(t, err)
	_, err = s.Cylinder(ports.ZAxisAt(0), 10, -1)
	assert.Error(t, err)
	_, err = s.Cone(ports.ZAxisAt(0), 10, 0, 10)
	assert.Error(t, err)
}

func TestForeignSolidRejected(t *testing.T) {
	s := openSession(t)

	_, err := s.Translate("not a solid", 1, 0, 0)
	assert.ErrorIs(t, err, errForeignSolid)
	_, err = s.Fuse(nil, nil)
	assert.ErrorIs(t, err, errForeignSolid)
}

func TestClosedSessionRejectsCalls(t *testing.T) {
	session, err := NewProvider().Open(context.Background())
	require.NoError(t, err)

	cyl, err := session.Cylinder(ports.ZAxisAt(0), 1, 1)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	_, err = session.Cylinder(ports.ZAxisAt(0), 1, 1)
	assert.ErrorIs(t, err, domain.ErrKernelClosed)
	_, err = session.BoundingBox(cyl)
	assert.ErrorIs(t, err, domain.ErrKernelClosed)
}

func TestEdgesAndFilletUnsupported(t *testing.T) {
	s := openSession(t)

	cyl, err := s.Cylinder(ports.ZAxisAt(0), 1, 1)
	require.NoError(t, err)

	_, err = s.Edges(cyl)
	assert.Error(t, err)
	_, err = s.Fillet(cyl)
	assert.Error(t, err)
}

func TestExportsCreateParentDirectories(t *testing.T) {
	s := openSession(t)
	dir := t.TempDir()

	cyl, err := s.Cylinder(ports.ZAxisAt(0), 40, 150)
	require.NoError(t, err)

	stepPath := filepath.Join(dir, "nested", "out", "model.step")
	require.NoError(t, s.ExportSTEP(cyl, stepPath))
	data, err := os.ReadFile(stepPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ISO-10303-21;"))
	assert.Contains(t, string(data), "80.000 x 80.000 x 150.000")

	brepPath := filepath.Join(dir, "nested", "model.brep")
	require.NoError(t, s.ExportBREP(cyl, brepPath))
	data, err = os.ReadFile(brepPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DBRep_DrawableShape")
}

func TestExportSTL(t *testing.T) {
	s := openSession(t)
	path := filepath.Join(t.TempDir(), "model.stl")

	cyl, err := s.Cylinder(ports.ZAxisAt(0), 40, 150)
	require.NoError(t, err)
	require.NoError(t, s.ExportSTL(cyl, path, 0.1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "solid model.stl"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "endsolid model.stl"))

	facets := strings.Count(text, "facet normal")
	segments := segmentsFor(40, 0.1)
	assert.Equal(t, 4*segments, facets)
}

func TestSegmentsFor(t *testing.T) {
	assert.Equal(t, 12, segmentsFor(40, 0))
	assert.Equal(t, 12, segmentsFor(1, 5))
	assert.Equal(t, 256, segmentsFor(1000, 0.001))

	n := segmentsFor(40, 0.1)
	assert.GreaterOrEqual(t, n, 12)
	assert.LessOrEqual(t, n, 256)

	// Chord deviation at the computed count stays within the deflection.
	theta := 2 * math.Pi / float64(n)
	sagitta := 40 * (1 - math.Cos(theta/2))
	assert.LessOrEqual(t, sagitta, 0.1+1e-9)
}
