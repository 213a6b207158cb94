// Package http exposes the generation pipeline as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/api"
	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

// Generator defines the interface for the generation pipeline core.
type Generator interface {
	Generate(ctx context.Context, req flacon.Request) (*domain.GenerationResult, error)
}

// Server wires the pipeline, the model store and the HTTP surface.
type Server struct {
	generator Generator
	store     ports.ModelStore
	outputDir string
	router    routers.Router
	metrics   *metrics
}

// NewHandler creates the HTTP handler. The store may be nil, in which case
// GET /v1/models/{id} answers 404 for everything.
func NewHandler(generator Generator, store ports.ModelStore, outputDir string) (http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	specRouter, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build OpenAPI router: %w", err)
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		generator: generator,
		store:     store,
		outputDir: outputDir,
		router:    specRouter,
		metrics:   newMetrics(registry),
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Spec)
	})
	r.Post("/v1/models", s.handleGenerate)
	r.Get("/v1/models/{modelId}", s.handleGetModel)
	return r, nil
}

// generateRequest is the POST /v1/models body.
type generateRequest struct {
	ModelID    string         `json:"modelId"`
	Parameters map[string]any `json:"parameters"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate validates the request against the OpenAPI document, runs
// the pipeline and returns the structured result. Pipeline failures map to
// 422 with the same failure shape the CLI prints.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := s.validateRequest(r); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Failure(err))
		return
	}

	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Failure(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	if body.ModelID == "" {
		body.ModelID = "bottle-" + uuid.NewString()
	}

	start := time.Now()
	result, err := s.generator.Generate(r.Context(), flacon.Request{
		ModelID:    body.ModelID,
		OutputDir:  s.outputDir,
		Parameters: body.Parameters,
	})
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.generations.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, domain.Failure(err))
		return
	}

	s.metrics.generations.WithLabelValues("ok").Inc()
	if result.Files != nil {
		s.metrics.observe(result.Files.Step != nil, result.Files.Stl != nil, result.Files.Brep != nil)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelId")
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, domain.Failure(domain.ErrModelNotFound))
		return
	}

	result, err := s.store.Load(r.Context(), modelID)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			writeJSON(w, http.StatusNotFound, domain.Failure(err))
			return
		}
		writeJSON(w, http.StatusInternalServerError, domain.Failure(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// validateRequest checks the incoming request against the embedded OpenAPI
// document. The body is restored afterwards so the handler can decode it.
func (s *Server) validateRequest(r *http.Request) error {
	route, pathParams, err := s.router.FindRoute(r)
	if err != nil {
		return fmt.Errorf("route not described by API spec: %w", err)
	}
	err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
	})
	if err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
