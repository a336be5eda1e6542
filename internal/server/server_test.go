package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/health"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/metrics"
	"github.com/victorcel/ollama-inventario/internal/search"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Zap: zap.NewNop()}
}

type fakeSearchStore struct {
	candidates []inventory.ProductDistance
}

func (s *fakeSearchStore) DistanceLookup(ctx context.Context, queryVector []float32) ([]inventory.ProductDistance, error) {
	return s.candidates, nil
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return make([]float32, 384), nil
}

type fakeCounter struct {
	n   int64
	err error
}

func (c fakeCounter) Count(ctx context.Context) (int64, error) { return c.n, c.err }

type fakeLister struct {
	models []string
	err    error
}

func (l fakeLister) ListModels(ctx context.Context) ([]string, error) { return l.models, l.err }

type serverFixture struct {
	store    *fakeSearchStore
	embedder *fakeEmbedder
	postgres *fakeCounter
	metrics  *metrics.Metrics
}

// newTestServer builds a Server whose search and health collaborators are
// fakes. The catalog endpoints need a live database and are covered by the
// integration tests.
func newTestServer(t *testing.T) (*Server, *serverFixture) {
	t.Helper()

	fx := &serverFixture{
		store:    &fakeSearchStore{},
		embedder: &fakeEmbedder{},
		postgres: &fakeCounter{n: 3},
	}

	log := testLogger()
	m := metrics.NewMetrics(metrics.Config{Address: ":0", ServiceName: "test"})
	fx.metrics = m
	engine := search.NewEngine(fx.store, fx.embedder, log)
	checker := health.NewChecker(fx.postgres, fakeCounter{n: 3},
		fakeLister{models: []string{"all-minilm:latest"}}, "all-minilm")

	srv := NewServer(Config{Address: ":0"}, nil, engine, checker, m, log, "all-minilm", 384)
	return srv, fx
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func TestHandleSearch_Success(t *testing.T) {
	srv, fx := newTestServer(t)
	fx.store.candidates = []inventory.ProductDistance{
		{ID: 1, Code: "LAP-001", Name: "Laptop", Distance: 0.2},
		{ID: 2, Code: "MON-001", Name: "Monitor", Distance: 0.6},
	}

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search",
		`{"query": "laptop para diseño", "limit": 5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "laptop para diseño", body["query"])
	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 2, body["total_available"])

	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "LAP-001", first["code"])
	assert.InDelta(t, 0.8, first["similarity"].(float64), 1e-9)
	// Raw distances stay internal.
	assert.NotContains(t, first, "distance")
}

func TestHandleSearch_EmptyQueryIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search",
		`{"query": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestHandleSearch_ProviderFailureIs500(t *testing.T) {
	srv, fx := newTestServer(t)
	fx.embedder.err = fmt.Errorf("%w: connection refused", embedding.ErrProvider)

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search",
		`{"query": "laptop"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error generating embedding", body["error"])
}

func TestHandleSearch_MalformedBodyIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search", `{"query": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, health.StatusOK, body["status"])
}

func TestHandleHealth_PostgresDownIs503(t *testing.T) {
	srv, fx := newTestServer(t)
	fx.postgres.err = fmt.Errorf("connection refused")

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, health.StatusError, body["status"])
}

func TestHandleSuggestions(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/products/suggestions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["suggestions"])
	assert.NotEmpty(t, body["tips"])
}

func TestHandleHome(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all-minilm", body["embedding_model"])
	assert.EqualValues(t, 384, body["dimensions"])
}

func TestProductID_MalformedIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/products/abc", "/api/products/0", "/api/products/-4"} {
		rec, body := doJSON(t, srv.Handler(), http.MethodDelete, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "invalid product id", body["error"], path)
	}
}

// embeddingOutcomeCount reads the embeddings_generated_total counter for one
// outcome label from the fixture's registry.
func embeddingOutcomeCount(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "embeddings_generated_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestEmbeddingCounterTracksProviderOutcomesOnly(t *testing.T) {
	srv, fx := newTestServer(t)

	// A validation rejection never reaches the provider and must not show
	// up as an embedding failure.
	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search", `{"query": "  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, embeddingOutcomeCount(t, fx.metrics, "failure"))
	assert.Zero(t, embeddingOutcomeCount(t, fx.metrics, "success"))

	// A provider failure counts as exactly one failure.
	fx.embedder.err = fmt.Errorf("%w: connection refused", embedding.ErrProvider)
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search", `{"query": "laptop"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(1), embeddingOutcomeCount(t, fx.metrics, "failure"))

	// A successful search counts one success.
	fx.embedder.err = nil
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/api/products/search", `{"query": "laptop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), embeddingOutcomeCount(t, fx.metrics, "success"))
	assert.Equal(t, float64(1), embeddingOutcomeCount(t, fx.metrics, "failure"))
}

func TestResponsesCarryRequestIDAndCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
