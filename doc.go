/*
Package flacon generates parametric bottle models and exports them to CAD
interchange formats (STEP, STL, BREP).

A generation request is a flat parameter map (neck diameter, body
height/radius, wall thickness, optional thread spec, taper, ribs, punt,
fillet), an output directory and a model ID. The pipeline runs three stages
per request, strictly in order:

 1. Parameter resolution: defaults, thread-driven overrides and safety
    clamps produce a ResolvedGeometry. Pure and total; it never fails.
 2. Feature composition: a fixed sequence of primitive and boolean
    operations against a geometry kernel builds the solid. Ribs and the
    shoulder fillet are best-effort; everything else is mandatory.
 3. Result packaging: bounding box plus one export per format, each
    recorded independently.

The kernel and the exporters are collaborators behind the interfaces in
pkg/ports. This Hexagonal Architecture lets flacon run against an
out-of-process B-rep kernel in production and an in-process approximate
kernel in tests and on machines without one.

# Usage

	provider := approx.NewProvider()
	gen := flacon.New(provider)

	result, err := gen.Generate(context.Background(), flacon.Request{
		ModelID:   "bottle-demo",
		OutputDir: "./output",
		Parameters: map[string]any{
			"neckDiameter": 20, "bodyHeight": 150,
			"bodyRadius": 40, "wallThickness": 3,
		},
	})

Each request opens its own kernel session and closes it when packaging is
done; nothing is shared across requests.
*/
package flacon
