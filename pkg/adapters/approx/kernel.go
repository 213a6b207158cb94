// Package approx is an in-process, approximate geometry kernel. It keeps
// just enough bookkeeping (placed primitives and rigid transforms) to
// compute bounding boxes analytically and to write preview-quality exports,
// so the pipeline works on machines without a B-rep kernel worker.
//
// Approximations, by construction of the bottle pipeline:
//   - boolean cuts keep the bounds of the base operand (every cut in a
//     bottle removes interior material only),
//   - exported meshes tessellate the primitives without evaluating the
//     booleans,
//   - edges and fillets are not modelled; Edges reports an error and the
//     pipeline degrades to an unfilleted solid.
package approx

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

// Provider hands out approximate kernel sessions.
type Provider struct{}

// NewProvider creates a Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Open returns a fresh in-process session.
func (p *Provider) Open(ctx context.Context) (ports.KernelSession, error) {
	return &Session{}, nil
}

// Session implements ports.KernelSession in process. It is not safe for
// concurrent use; the pipeline runs one composition per session.
type Session struct {
	closed bool
}

// Close marks the session unusable.
func (s *Session) Close() error {
	s.closed = true
	return nil
}

var errForeignSolid = errors.New("solid was not produced by this kernel")

type primKind int

const (
	kindCylinder primKind = iota
	kindCone
)

// placed is one primitive with its rigid placement (local frame: base
// circle centered at the origin, height along +Z).
type placed struct {
	kind   primKind
	r1, r2 float64
	h      float64
	frame  affine
}

// solid is a bag of additive placed primitives. Cuts are dropped after
// bounds bookkeeping; see the package comment.
type solid struct {
	prims []placed
}

func (s *Session) guard(args ...ports.Solid) (out []*solid, err error) {
	if s.closed {
		return nil, domain.ErrKernelClosed
	}
	out = make([]*solid, len(args))
	for i, a := range args {
		sol, ok := a.(*solid)
		if !ok || sol == nil {
			return nil, errForeignSolid
		}
		out[i] = sol
	}
	return out, nil
}

// Cylinder builds a solid cylinder on the given axis.
func (s *Session) Cylinder(axis ports.Axis, radius, height float64) (ports.Solid, error) {
	return s.primitive(kindCylinder, axis, radius, radius, height)
}

// Cone builds a frustum from baseRadius to topRadius along the axis.
func (s *Session) Cone(axis ports.Axis, baseRadius, topRadius, height float64) (ports.Solid, error) {
	return s.primitive(kindCone, axis, baseRadius, topRadius, height)
}

func (s *Session) primitive(kind primKind, axis ports.Axis, r1, r2, height float64) (ports.Solid, error) {
	if s.closed {
		return nil, domain.ErrKernelClosed
	}
	if r1 <= 0 || height <= 0 || (kind == kindCone && r2 <= 0) {
		return nil, fmt.Errorf("non-positive primitive dimension (r1=%g r2=%g h=%g)", r1, r2, height)
	}
	frame, err := frameFor(axis)
	if err != nil {
		return nil, err
	}
	return &solid{prims: []placed{{kind: kind, r1: r1, r2: r2, h: height, frame: frame}}}, nil
}

// Translate returns the solid rigidly moved by (dx, dy, dz).
func (s *Session) Translate(sol ports.Solid, dx, dy, dz float64) (ports.Solid, error) {
	in, err := s.guard(sol)
	if err != nil {
		return nil, err
	}
	return in[0].transformed(translation(dx, dy, dz)), nil
}

// RotateZ returns the solid rotated about the main axis at the origin.
func (s *Session) RotateZ(sol ports.Solid, radians float64) (ports.Solid, error) {
	in, err := s.guard(sol)
	if err != nil {
		return nil, err
	}
	return in[0].transformed(rotationZ(radians)), nil
}

// Fuse returns the boolean union of two solids.
func (s *Session) Fuse(a, b ports.Solid) (ports.Solid, error) {
	in, err := s.guard(a, b)
	if err != nil {
		return nil, err
	}
	fused := &solid{prims: make([]placed, 0, len(in[0].prims)+len(in[1].prims))}
	fused.prims = append(fused.prims, in[0].prims...)
	fused.prims = append(fused.prims, in[1].prims...)
	return fused, nil
}

// Cut returns base minus tool. The bottle's cuts only remove interior
// material, so the base operand's bounds carry over unchanged.
func (s *Session) Cut(base, tool ports.Solid) (ports.Solid, error) {
	in, err := s.guard(base, tool)
	if err != nil {
		return nil, err
	}
	cut := &solid{prims: make([]placed, len(in[0].prims))}
	copy(cut.prims, in[0].prims)
	return cut, nil
}

// Edges is unsupported: this kernel tracks no topology. The composition
// stage treats the error as "skip the fillet".
func (s *Session) Edges(sol ports.Solid) ([]ports.Edge, error) {
	if _, err := s.guard(sol); err != nil {
		return nil, err
	}
	return nil, errors.New("approx kernel does not enumerate edges")
}

// Fillet is unsupported for the same reason as Edges.
func (s *Session) Fillet(sol ports.Solid) (ports.FilletBuilder, error) {
	if _, err := s.guard(sol); err != nil {
		return nil, err
	}
	return nil, errors.New("approx kernel does not support fillets")
}

// BoundingBox computes the axis-aligned bounds over every placed primitive.
func (s *Session) BoundingBox(sol ports.Solid) (domain.BoundingBox, error) {
	in, err := s.guard(sol)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	if len(in[0].prims) == 0 {
		return domain.BoundingBox{}, errors.New("empty solid")
	}

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, prim := range in[0].prims {
		pMin, pMax := prim.bounds()
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], pMin[i])
			max[i] = math.Max(max[i], pMax[i])
		}
	}
	return domain.NewBoundingBox(min, max), nil
}

func (sol *solid) transformed(t affine) *solid {
	out := &solid{prims: make([]placed, len(sol.prims))}
	for i, prim := range sol.prims {
		prim.frame = t.mul(prim.frame)
		out.prims[i] = prim
	}
	return out
}

// bounds transforms the corners of the primitive's local box. Conservative
// for rotated placements, exact for the axis-aligned ones.
func (p placed) bounds() (min, max [3]float64) {
	r := math.Max(p.r1, p.r2)
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, x := range []float64{-r, r} {
		for _, y := range []float64{-r, r} {
			for _, z := range []float64{0, p.h} {
				c := p.frame.apply([3]float64{x, y, z})
				for i := 0; i < 3; i++ {
					min[i] = math.Min(min[i], c[i])
					max[i] = math.Max(max[i], c[i])
				}
			}
		}
	}
	return min, max
}

// affine is a rigid transform: rotation matrix plus translation.
type affine struct {
	m [3][3]float64
	t [3]float64
}

func identity() affine {
	return affine{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

func translation(dx, dy, dz float64) affine {
	a := identity()
	a.t = [3]float64{dx, dy, dz}
	return a
}

func rotationZ(rad float64) affine {
	c, s := math.Cos(rad), math.Sin(rad)
	return affine{m: [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}}
}

// mul composes transforms: (a.mul(b)).apply(v) == a.apply(b.apply(v)).
func (a affine) mul(b affine) affine {
	var out affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += a.m[i][k] * b.m[k][j]
			}
		}
		out.t[i] = a.t[i]
		for k := 0; k < 3; k++ {
			out.t[i] += a.m[i][k] * b.t[k]
		}
	}
	return out
}

func (a affine) apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = a.m[i][0]*v[0] + a.m[i][1]*v[1] + a.m[i][2]*v[2] + a.t[i]
	}
	return out
}

// frameFor maps the primitive's local frame (+Z height axis at the origin)
// onto the requested axis.
func frameFor(axis ports.Axis) (affine, error) {
	d := axis.Dir
	norm := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if norm == 0 {
		return affine{}, errors.New("zero-length axis direction")
	}
	for i := range d {
		d[i] /= norm
	}

	// Rotation taking +Z to d, built from an orthonormal basis around d.
	var u [3]float64
	if math.Abs(d[2]) < 0.9 {
		u = [3]float64{0, 0, 1}
	} else {
		u = [3]float64{1, 0, 0}
	}
	x := cross(u, d)
	xn := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	for i := range x {
		x[i] /= xn
	}
	y := cross(d, x)

	var a affine
	for i := 0; i < 3; i++ {
		a.m[i][0] = x[i]
		a.m[i][1] = y[i]
		a.m[i][2] = d[i]
		a.t[i] = axis.Origin[i]
	}
	return a, nil
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
