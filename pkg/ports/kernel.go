package ports

import (
	"context"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// Solid is an opaque handle to a solid owned by the kernel that produced
// it. The pipeline only holds references; it never inspects topology except
// through Edges.
type Solid interface{}

// Edge is an opaque handle to one edge of a solid, used only for fillet
// registration.
type Edge interface{}

// Axis positions a primitive: base point plus direction of the height axis.
type Axis struct {
	Origin [3]float64
	Dir    [3]float64
}

// ZAxisAt returns an upward axis on the centerline at height z. Almost
// every primitive in a bottle is built on one of these.
func ZAxisAt(z float64) Axis {
	return Axis{Origin: [3]float64{0, 0, z}, Dir: [3]float64{0, 0, 1}}
}

// DownAxisAt returns a downward axis on the centerline at height z, used
// for the punt cut into the base.
func DownAxisAt(z float64) Axis {
	return Axis{Origin: [3]float64{0, 0, z}, Dir: [3]float64{0, 0, -1}}
}

// FilletBuilder accumulates (edge, radius) registrations and evaluates them
// in one operation, mirroring how B-rep kernels expose fillets.
type FilletBuilder interface {
	// Add registers one edge with the given fillet radius.
	Add(radius float64, edge Edge)

	// Build evaluates the fillet. On error the caller keeps the original
	// solid; a fillet failure must never fail the request.
	Build() (Solid, error)
}

// GeometryKernel is the capability set the composition stage issues calls
// against. A kernel instance is not assumed to be reentrant: the pipeline
// runs at most one composition against it at a time.
type GeometryKernel interface {
	// Cylinder builds a solid cylinder on the given axis.
	Cylinder(axis Axis, radius, height float64) (Solid, error)

	// Cone builds a frustum from baseRadius to topRadius along the axis.
	Cone(axis Axis, baseRadius, topRadius, height float64) (Solid, error)

	// Translate returns the solid rigidly moved by (dx, dy, dz).
	Translate(s Solid, dx, dy, dz float64) (Solid, error)

	// RotateZ returns the solid rotated about the main (Z) axis at the
	// origin by the given angle in radians.
	RotateZ(s Solid, radians float64) (Solid, error)

	// Fuse returns the boolean union of two solids.
	Fuse(a, b Solid) (Solid, error)

	// Cut returns base minus tool.
	Cut(base, tool Solid) (Solid, error)

	// Edges enumerates every edge of the solid.
	Edges(s Solid) ([]Edge, error)

	// Fillet starts a fillet operation over the solid.
	Fillet(s Solid) (FilletBuilder, error)

	// BoundingBox computes the axis-aligned bounding box of the solid.
	BoundingBox(s Solid) (domain.BoundingBox, error)
}

// ExportBackend serializes a solid to the interchange formats. Every method
// creates parent directories as needed. Failures are logged and recorded
// per format by the caller, never raised past the export call.
type ExportBackend interface {
	ExportSTEP(s Solid, path string) error
	ExportSTL(s Solid, path string, deflection float64) error
	ExportBREP(s Solid, path string) error
}

// KernelSession bundles kernel and exporter for one request. Sessions are
// scoped: opened at the request boundary, closed when packaging is done,
// never retained across requests.
type KernelSession interface {
	GeometryKernel
	ExportBackend

	// Close releases the kernel context. Solids obtained from the session
	// are invalid afterwards.
	Close() error
}

// KernelProvider opens kernel sessions. Implementations may spawn a worker
// process per session or hand out an in-process context.
type KernelProvider interface {
	Open(ctx context.Context) (KernelSession, error)
}
