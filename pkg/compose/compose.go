// Package compose turns a resolved geometry into a solid by issuing a fixed
// sequence of primitive and boolean operations against a geometry kernel.
//
// The sequence is strictly ordered and never retried. Two stages are soft:
// ribs and the shoulder fillet are cosmetic, so any kernel error inside them
// is logged and the bottle composed so far is returned. Every other kernel
// error aborts the request.
package compose

import (
	"fmt"
	"log/slog"

	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

// Compose builds the bottle solid. The kernel owns every solid produced;
// callers must keep the owning session open until packaging is done.
func Compose(geo domain.ResolvedGeometry, kernel ports.GeometryKernel, logger *slog.Logger) (ports.Solid, error) {
	hollowBody, err := hollowBody(geo, kernel)
	if err != nil {
		return nil, err
	}

	hollowNeck, err := hollowNeck(geo, kernel)
	if err != nil {
		return nil, err
	}

	bottle, err := kernel.Fuse(hollowBody, hollowNeck)
	if err != nil {
		return nil, fmt.Errorf("fuse body and neck: %w", err)
	}

	if geo.PuntActive {
		bottle, err = cutPunt(geo, kernel, bottle)
		if err != nil {
			return nil, err
		}
	}

	if len(geo.Ribs) > 0 {
		bottle = fuseRibs(geo, kernel, bottle, logger)
	}

	if geo.FilletActive {
		bottle = applyFillet(geo, kernel, bottle, logger)
	}

	return bottle, nil
}

// hollowBody builds the outer and inner body solids and cuts one from the
// other. The inner body is lifted by the wall thickness before the cut;
// cutting first and lifting after would leave the bottle without a bottom.
func hollowBody(geo domain.ResolvedGeometry, kernel ports.GeometryKernel) (ports.Solid, error) {
	axis := ports.ZAxisAt(0)

	var outer, inner ports.Solid
	var err error
	if geo.Tapered {
		outer, err = kernel.Cone(axis, geo.BodyRadius, geo.BodyTopRadius, geo.BodyHeight)
		if err != nil {
			return nil, fmt.Errorf("build outer body: %w", err)
		}
		inner, err = kernel.Cone(axis, geo.InnerRadius, geo.InnerTopRadius, geo.InnerHeight)
		if err != nil {
			return nil, fmt.Errorf("build inner body: %w", err)
		}
	} else {
		outer, err = kernel.Cylinder(axis, geo.BodyRadius, geo.BodyHeight)
		if err != nil {
			return nil, fmt.Errorf("build outer body: %w", err)
		}
		inner, err = kernel.Cylinder(axis, geo.InnerRadius, geo.InnerHeight)
		if err != nil {
			return nil, fmt.Errorf("build inner body: %w", err)
		}
	}

	inner, err = kernel.Translate(inner, 0, 0, geo.FloorLift)
	if err != nil {
		return nil, fmt.Errorf("lift inner body: %w", err)
	}

	hollow, err := kernel.Cut(outer, inner)
	if err != nil {
		return nil, fmt.Errorf("hollow body: %w", err)
	}
	return hollow, nil
}

func hollowNeck(geo domain.ResolvedGeometry, kernel ports.GeometryKernel) (ports.Solid, error) {
	axis := ports.ZAxisAt(geo.BodyHeight)

	outer, err := kernel.Cylinder(axis, geo.NeckRadius, geo.NeckHeight)
	if err != nil {
		return nil, fmt.Errorf("build outer neck: %w", err)
	}
	inner, err := kernel.Cylinder(axis, geo.NeckInnerRadius, geo.NeckHeight)
	if err != nil {
		return nil, fmt.Errorf("build inner neck: %w", err)
	}

	hollow, err := kernel.Cut(outer, inner)
	if err != nil {
		return nil, fmt.Errorf("hollow neck: %w", err)
	}
	return hollow, nil
}

func cutPunt(geo domain.ResolvedGeometry, kernel ports.GeometryKernel, bottle ports.Solid) (ports.Solid, error) {
	punt, err := kernel.Cylinder(ports.DownAxisAt(0), geo.PuntRadius, geo.PuntDepth)
	if err != nil {
		return nil, fmt.Errorf("build punt: %w", err)
	}
	cut, err := kernel.Cut(bottle, punt)
	if err != nil {
		return nil, fmt.Errorf("cut punt: %w", err)
	}
	return cut, nil
}

// fuseRibs adds the grip ribs one by one. Ribs are best effort: the first
// error aborts rib addition and the bottle composed so far is returned.
func fuseRibs(geo domain.ResolvedGeometry, kernel ports.GeometryKernel, bottle ports.Solid, logger *slog.Logger) ports.Solid {
	axis := ports.ZAxisAt(0)
	for i, rib := range geo.Ribs {
		solid, err := kernel.Cylinder(axis, rib.Radius, rib.Height)
		if err == nil {
			solid, err = kernel.Translate(solid, rib.Offset, 0, rib.ZOffset)
		}
		if err == nil {
			solid, err = kernel.RotateZ(solid, rib.Angle)
		}

		var fused ports.Solid
		if err == nil {
			fused, err = kernel.Fuse(bottle, solid)
		}
		if err != nil {
			logger.Warn("rib construction failed, skipping remaining ribs",
				"rib", i, "err", err)
			return bottle
		}
		bottle = fused
	}
	return bottle
}

// applyFillet registers every edge of the bottle with the fillet radius and
// evaluates the operator. On any failure the pre-fillet bottle is returned.
func applyFillet(geo domain.ResolvedGeometry, kernel ports.GeometryKernel, bottle ports.Solid, logger *slog.Logger) ports.Solid {
	edges, err := kernel.Edges(bottle)
	if err != nil {
		logger.Warn("edge enumeration failed, skipping fillet", "err", err)
		return bottle
	}
	if len(edges) == 0 {
		return bottle
	}

	builder, err := kernel.Fillet(bottle)
	if err != nil {
		logger.Warn("fillet operator unavailable, skipping fillet", "err", err)
		return bottle
	}
	for _, edge := range edges {
		builder.Add(geo.FilletRadius, edge)
	}

	filleted, err := builder.Build()
	if err != nil {
		logger.Warn("fillet evaluation failed, keeping unfilleted solid", "err", err)
		return bottle
	}
	return filleted
}
