package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return NewMetrics(Config{Address: ":0", ServiceName: "test"})
}

func TestIncrementRequests(t *testing.T) {
	m := newTestMetrics()

	m.IncrementRequests("/api/products/search", "200")
	m.IncrementRequests("/api/products/search", "200")
	m.IncrementRequests("/api/products/search", "400")

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/products/search", "200"))
	assert.Equal(t, float64(2), count)

	count = testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/products/search", "400"))
	assert.Equal(t, float64(1), count)
}

func TestCountEmbedding(t *testing.T) {
	m := newTestMetrics()

	m.CountEmbedding("success")
	m.CountEmbedding("failure")
	m.CountEmbedding("success")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.embeddingsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.embeddingsTotal.WithLabelValues("failure")))
}

func TestMetricsCarryServiceLabel(t *testing.T) {
	m := newTestMetrics()
	m.IncrementRequests("/health", "200")
	m.RecordRequestDuration(time.Now(), "/health")
	m.ObserveSearchCandidates(12)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, mf := range families {
		byName[mf.GetName()] = true
		for _, metric := range mf.GetMetric() {
			hasService := false
			for _, label := range metric.GetLabel() {
				if label.GetName() == "service" && label.GetValue() == "test" {
					hasService = true
				}
			}
			assert.True(t, hasService, "metric %s is missing the service label", mf.GetName())
		}
	}

	assert.True(t, byName["requests_total"])
	assert.True(t, byName["request_duration_seconds"])
	assert.True(t, byName["search_candidates"])
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("METRICS_ADDRESS", "")
	t.Setenv("SERVICE_NAME", "")

	cfg := NewConfig()
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "inventario", cfg.ServiceName)
	assert.True(t, cfg.EnableDefaultCollectors)
}
