package domain

import "math"

// Dimension floors. Every radius and height handed to a primitive
// constructor must stay strictly positive, even for degenerate inputs such
// as wallThickness >= bodyRadius.
const (
	minInnerRadius      = 1.0
	minInnerHeight      = 1.0
	minTaperedRadius    = 0.5
	minNeckInnerRadius  = 0.5
	minPuntRadius       = 1.0
	defaultNeckHeight   = 30.0
	minThreadNeckHeight = 20.0
	minRibHeight        = 10.0
)

// Activation thresholds for the optional features.
const (
	puntThreshold   = 0.05
	ribThreshold    = 0.1
	filletThreshold = 0.01
)

// RibPlacement describes one grip rib: a thin vertical cylinder built on
// the main axis, pushed out radially, then rotated into place.
type RibPlacement struct {
	// Angle is the rotation about the main axis, radians.
	Angle float64
	// Offset is the radial translation applied before rotation.
	Offset float64
	// Radius is the rib cylinder radius.
	Radius float64
	// Height is the rib cylinder height.
	Height float64
	// ZOffset centers the rib vertically on the body.
	ZOffset float64
}

// ResolvedGeometry holds every dimension the composition stage needs,
// already clamped. It is computed once per request and never mutated.
type ResolvedGeometry struct {
	Tapered        bool
	BodyRadius     float64
	BodyTopRadius  float64
	BodyHeight     float64
	InnerRadius    float64
	InnerTopRadius float64
	InnerHeight    float64

	// FloorLift is how far the inner body is raised before the hollowing
	// cut; it is what gives the bottle a solid bottom.
	FloorLift float64

	NeckRadius      float64
	NeckInnerRadius float64
	NeckHeight      float64

	PuntActive bool
	PuntRadius float64
	PuntDepth  float64

	Ribs []RibPlacement

	FilletActive bool
	FilletRadius float64
}

// Resolve derives the full geometry from a parameter set. It is a pure,
// total function: invalid or extreme inputs are clamped to safe floors, and
// an unparsable thread spec is silently ignored. Calling Resolve twice with
// the same input yields the same output.
func Resolve(p BottleParameters) ResolvedGeometry {
	neckDiameter := p.NeckDiameter
	neckHeight := defaultNeckHeight

	// A metric thread aligns the neck to the thread major diameter and
	// scales the neck height with the pitch. This is an approximation:
	// no helical geometry is modelled, the thread only perturbs the neck.
	if spec, ok := ParseThreadSpec(p.ThreadType); ok {
		neckDiameter = spec.MajorDiameter
		neckHeight = math.Max(minThreadNeckHeight, 8.0*spec.Pitch)
	}

	geo := ResolvedGeometry{
		BodyRadius: p.BodyRadius,
		BodyHeight: p.BodyHeight,
		FloorLift:  p.WallThickness,
		NeckHeight: neckHeight,
	}

	if p.BodyTaperDeg > 0 {
		geo.Tapered = true
		geo.BodyTopRadius = math.Max(minTaperedRadius,
			p.BodyRadius-p.BodyHeight*math.Tan(p.BodyTaperDeg*math.Pi/180))
		geo.InnerRadius = math.Max(minTaperedRadius, p.BodyRadius-p.WallThickness)
		geo.InnerTopRadius = math.Max(minTaperedRadius, geo.BodyTopRadius-p.WallThickness)
		geo.InnerHeight = math.Max(minInnerHeight, p.BodyHeight-p.WallThickness)
	} else {
		geo.BodyTopRadius = p.BodyRadius
		geo.InnerRadius = math.Max(p.BodyRadius-p.WallThickness, minInnerRadius)
		geo.InnerTopRadius = geo.InnerRadius
		geo.InnerHeight = math.Max(p.BodyHeight-p.WallThickness, minInnerHeight)
	}

	geo.NeckRadius = neckDiameter / 2
	geo.NeckInnerRadius = math.Max(geo.NeckRadius-p.WallThickness, minNeckInnerRadius)

	if p.BottomConcavity > puntThreshold {
		geo.PuntActive = true
		geo.PuntRadius = math.Max(minPuntRadius, p.BodyRadius-p.WallThickness-1.0)
		geo.PuntDepth = p.BottomConcavity
	}

	if p.RibsCount > 0 && p.RibThickness > ribThreshold {
		ribHeight := math.Max(minRibHeight, p.BodyHeight*0.6)
		step := 2 * math.Pi / float64(p.RibsCount)
		geo.Ribs = make([]RibPlacement, p.RibsCount)
		for i := range geo.Ribs {
			geo.Ribs[i] = RibPlacement{
				Angle:   float64(i) * step,
				Offset:  p.BodyRadius + p.RibThickness/2,
				Radius:  p.RibThickness,
				Height:  ribHeight,
				ZOffset: (p.BodyHeight - ribHeight) / 2,
			}
		}
	}

	if p.ShoulderFillet > filletThreshold {
		geo.FilletActive = true
		geo.FilletRadius = p.ShoulderFillet
	}

	return geo
}
