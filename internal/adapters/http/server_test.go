package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/pkg/adapters/memory"
	"github.com/ateliers3d/flacon/pkg/domain"
)

// stubGenerator returns a canned result or error and records the request.
type stubGenerator struct {
	last   flacon.Request
	result *domain.GenerationResult
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, req flacon.Request) (*domain.GenerationResult, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	result := *g.result
	result.ModelID = req.ModelID
	return &result, nil
}

func okResult() *domain.GenerationResult {
	step := "output/bottle.step"
	return &domain.GenerationResult{
		Success: true,
		Files:   &domain.FileSet{Step: &step},
		Preview: &domain.Preview{
			BoundingBox: domain.NewBoundingBox(
				[3]float64{-40, -40, 0}, [3]float64{40, 40, 180}),
		},
	}
}

func newTestHandler(t *testing.T, gen Generator) http.Handler {
	t.Helper()
	handler, err := NewHandler(gen, memory.NewStore(), "output")
	require.NoError(t, err)
	return handler
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t, &stubGenerator{result: okResult()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGenerate_OK(t *testing.T) {
	gen := &stubGenerator{result: okResult()}
	handler := newTestHandler(t, gen)

	rec := postJSON(handler, "/v1/models", `{
		"modelId": "bottle-7",
		"parameters": {"bodyHeight": 200, "threadType": "M24x2"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "bottle-7", result.ModelID)

	assert.Equal(t, "bottle-7", gen.last.ModelID)
	assert.Equal(t, "output", gen.last.OutputDir)
	assert.Equal(t, 200.0, gen.last.Parameters["bodyHeight"])
	assert.Equal(t, "M24x2", gen.last.Parameters["threadType"])
}

func TestGenerate_GeneratesModelID(t *testing.T) {
	gen := &stubGenerator{result: okResult()}
	handler := newTestHandler(t, gen)

	rec := postJSON(handler, "/v1/models", `{"parameters": {}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(gen.last.ModelID, "bottle-"))
	assert.Greater(t, len(gen.last.ModelID), len("bottle-"))
}

func TestGenerate_MissingParametersRejected(t *testing.T) {
	gen := &stubGenerator{result: okResult()}
	handler := newTestHandler(t, gen)

	rec := postJSON(handler, "/v1/models", `{"modelId": "no-params"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.last.ModelID, "generator must not run on invalid input")

	var result domain.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestGenerate_MalformedJSONRejected(t *testing.T) {
	handler := newTestHandler(t, &stubGenerator{result: okResult()})

	rec := postJSON(handler, "/v1/models", `{"parameters": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_PipelineFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("hollow body: shapes do not intersect")}
	handler := newTestHandler(t, gen)

	rec := postJSON(handler, "/v1/models", `{"parameters": {"bodyRadius": 40}}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result domain.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "hollow body")
}

func TestGetModel(t *testing.T) {
	store := memory.NewStore()
	handler, err := NewHandler(&stubGenerator{result: okResult()}, store, "output")
	require.NoError(t, err)

	saved := okResult()
	saved.ModelID = "bottle-9"
	require.NoError(t, store.Save(context.Background(), "bottle-9", saved))

	req := httptest.NewRequest(http.MethodGet, "/v1/models/bottle-9", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "bottle-9", result.ModelID)
	assert.Equal(t, [3]float64{80, 80, 180}, result.Preview.BoundingBox.Dimensions)
}

func TestGetModel_NotFound(t *testing.T) {
	handler := newTestHandler(t, &stubGenerator{result: okResult()})

	req := httptest.NewRequest(http.MethodGet, "/v1/models/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetModel_NilStore(t *testing.T) {
	handler, err := NewHandler(&stubGenerator{result: okResult()}, nil, "output")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/models/anything", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpenAPIDocumentServed(t *testing.T) {
	handler := newTestHandler(t, &stubGenerator{result: okResult()})

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t, &stubGenerator{result: okResult()})

	rec := postJSON(handler, "/v1/models", `{"parameters": {}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `flacon_generations_total{outcome="ok"} 1`)
}
