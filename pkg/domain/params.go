package domain

import (
	"github.com/mitchellh/mapstructure"
)

// BottleParameters is the user-facing parameter set for a bottle model.
// All lengths are millimetres, angles are degrees.
type BottleParameters struct {
	// NeckDiameter is the outer diameter of the bottle neck.
	NeckDiameter float64 `json:"neckDiameter" mapstructure:"neckDiameter"`

	// BodyHeight is the height of the bottle body (excluding the neck).
	BodyHeight float64 `json:"bodyHeight" mapstructure:"bodyHeight"`

	// BodyRadius is the outer radius of the bottle body at its base.
	BodyRadius float64 `json:"bodyRadius" mapstructure:"bodyRadius"`

	// WallThickness is the wall thickness of body and neck.
	WallThickness float64 `json:"wallThickness" mapstructure:"wallThickness"`

	// ThreadType is an optional metric thread spec ("M20x1.5"). When set and
	// parsable, it overrides NeckDiameter and drives the neck height.
	// "None" or empty means no thread.
	ThreadType string `json:"threadType,omitempty" mapstructure:"threadType"`

	// BodyTaperDeg tapers the body into a frustum when > 0.
	BodyTaperDeg float64 `json:"bodyTaperDeg,omitempty" mapstructure:"bodyTaperDeg"`

	// BottomConcavity is the depth of the punt cut into the base, if > 0.05.
	BottomConcavity float64 `json:"bottomConcavity,omitempty" mapstructure:"bottomConcavity"`

	// RibsCount is the number of grip ribs fused around the body.
	RibsCount int `json:"ribsCount,omitempty" mapstructure:"ribsCount"`

	// RibThickness is the radius of each rib cylinder.
	RibThickness float64 `json:"ribThickness,omitempty" mapstructure:"ribThickness"`

	// ShoulderFillet is a fillet radius applied to every edge of the
	// finished solid when > 0.01.
	ShoulderFillet float64 `json:"shoulderFillet,omitempty" mapstructure:"shoulderFillet"`

	// Material is carried for reference only; it does not affect geometry.
	Material string `json:"material,omitempty" mapstructure:"material"`
}

// DefaultParameters returns the documented defaults. They describe a plain
// 150mm x 40mm cylindrical bottle with a 20mm neck and 3mm walls.
func DefaultParameters() BottleParameters {
	return BottleParameters{
		NeckDiameter:  20,
		BodyHeight:    150,
		BodyRadius:    40,
		WallThickness: 3,
		ThreadType:    "None",
		RibThickness:  2,
	}
}

// ParamsFromMap decodes a flat, loosely typed parameter map into a typed
// parameter set. Missing keys keep their defaults; numeric strings are
// coerced; values that cannot be coerced also fall back to the default
// rather than failing. Unknown keys are ignored.
//
// This deliberately fails open: the parameter map comes from interactive
// frontends and a single bad field should not reject the whole request.
func ParamsFromMap(raw map[string]any) BottleParameters {
	params := DefaultParameters()
	if raw == nil {
		return params
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &params,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return params
	}

	// Decode field by field so one bad value cannot poison its siblings.
	// mapstructure keeps whatever it managed to set, which is exactly the
	// fallback behaviour we want.
	for key, value := range raw {
		_ = dec.Decode(map[string]any{key: value})
	}

	return params
}
