package flacon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ateliers3d/flacon/internal/logging"
	"github.com/ateliers3d/flacon/pkg/compose"
	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

// Version is the flacon release version.
const Version = "0.3.0"

// DefaultDeflection is the STL meshing quality used when none is
// configured: maximum deviation between mesh and true surface, in mm.
const DefaultDeflection = 0.1

// Generator is the high-level entry point. It owns no kernel state itself;
// a fresh kernel session is opened per request.
type Generator struct {
	provider   ports.KernelProvider
	store      ports.ModelStore
	logger     *slog.Logger
	deflection float64
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithStore persists every generation result under its model ID.
func WithStore(store ports.ModelStore) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithDeflection sets the STL meshing deflection.
func WithDeflection(deflection float64) Option {
	return func(g *Generator) {
		if deflection > 0 {
			g.deflection = deflection
		}
	}
}

// New creates a Generator on top of a kernel provider.
func New(provider ports.KernelProvider, opts ...Option) *Generator {
	g := &Generator{
		provider:   provider,
		logger:     logging.NewNop(),
		deflection: DefaultDeflection,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request is one generation request. Parameters is the flat key/value set
// described in the API; missing or malformed entries fall back to defaults.
type Request struct {
	ModelID    string
	OutputDir  string
	Parameters map[string]any
}

// Generate runs the full pipeline for one request: resolve, compose,
// package. It returns an error only for fatal failures (missing model ID,
// kernel session failure, mandatory composition error); per-format export
// failures and degraded optional features are recorded in the result
// instead. Callers turning errors into responses can use domain.Failure.
func (g *Generator) Generate(ctx context.Context, req Request) (*domain.GenerationResult, error) {
	if req.ModelID == "" {
		return nil, domain.ErrMissingModelID
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}

	params := domain.ParamsFromMap(req.Parameters)
	geo := domain.Resolve(params)

	g.logger.Info("generating bottle",
		"model", req.ModelID,
		"neck", params.NeckDiameter,
		"body_height", params.BodyHeight,
		"body_radius", params.BodyRadius,
		"wall", params.WallThickness)

	session, err := g.provider.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open kernel session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			g.logger.Warn("kernel session close failed", "err", cerr)
		}
	}()

	solid, err := compose.Compose(geo, session, g.logger)
	if err != nil {
		return nil, err
	}

	result := g.packageResult(session, solid, outputDir, req.ModelID)
	result.Parameters = &params

	if g.store != nil {
		if serr := g.store.Save(ctx, req.ModelID, result); serr != nil {
			g.logger.Warn("failed to persist result", "model", req.ModelID, "err", serr)
		}
	}

	return result, nil
}

// packageResult computes the bounding box and exports each format
// independently. One format failing does not block the others, and a
// bounding-box failure yields a zero box rather than failing the request.
func (g *Generator) packageResult(session ports.KernelSession, solid ports.Solid, outputDir, modelID string) *domain.GenerationResult {
	box, err := session.BoundingBox(solid)
	if err != nil {
		g.logger.Warn("bounding box computation failed, using zero box", "err", err)
		box = domain.ZeroBox()
	}

	base := filepath.Join(outputDir, modelID)
	files := &domain.FileSet{}

	stepPath := base + ".step"
	if err := session.ExportSTEP(solid, stepPath); err != nil {
		g.logger.Warn("STEP export failed", "path", stepPath, "err", err)
	} else {
		files.Step = &stepPath
	}

	stlPath := base + ".stl"
	if err := session.ExportSTL(solid, stlPath, g.deflection); err != nil {
		g.logger.Warn("STL export failed", "path", stlPath, "err", err)
	} else {
		files.Stl = &stlPath
	}

	brepPath := base + ".brep"
	if err := session.ExportBREP(solid, brepPath); err != nil {
		g.logger.Warn("BREP export failed", "path", brepPath, "err", err)
	} else {
		files.Brep = &brepPath
	}

	return &domain.GenerationResult{
		Success: true,
		ModelID: modelID,
		Files:   files,
		Preview: &domain.Preview{BoundingBox: box},
	}
}
