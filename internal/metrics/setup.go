package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config for the metrics server.
type Config struct {
	// Address the /metrics endpoint listens on, e.g. ":9090".
	Address string

	// ServiceName is attached as a constant "service" label to every metric.
	ServiceName string

	// EnableDefaultCollectors registers the Go/process/build collectors.
	EnableDefaultCollectors bool
}

// NewConfig reads the metrics configuration from environment variables.
func NewConfig() Config {
	address := os.Getenv("METRICS_ADDRESS")
	if address == "" {
		address = ":9090"
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "inventario"
	}

	return Config{
		Address:                 address,
		ServiceName:             service,
		EnableDefaultCollectors: true,
	}
}

// Metrics holds the Prometheus registry and the HTTP server exposing it.
// Each process keeps its own isolated registry to avoid name collisions.
type Metrics struct {
	Server   *http.Server
	Registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	embeddingsTotal  *prometheus.CounterVec
	searchCandidates prometheus.Histogram
}

// NewMetrics builds the registry, registers the application metrics under a
// constant service label, and prepares the HTTP server serving /metrics.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "requests_total",
				Help: "Total number of processed HTTP requests",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		embeddingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embeddings_generated_total",
				Help: "Embedding generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		searchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_candidates",
				Help:    "Number of candidates ranked per semantic search",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.embeddingsTotal,
		m.searchCandidates,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	return m
}

// IncrementRequests counts one handled request.
func (m *Metrics) IncrementRequests(endpoint, status string) {
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordRequestDuration records the elapsed time for an endpoint.
// Example: defer m.RecordRequestDuration(time.Now(), "/api/products/search")
func (m *Metrics) RecordRequestDuration(start time.Time, endpoint string) {
	m.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// CountEmbedding counts one embedding generation attempt ("success" or
// "failure").
func (m *Metrics) CountEmbedding(outcome string) {
	m.embeddingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSearchCandidates records how many candidates one search ranked.
func (m *Metrics) ObserveSearchCandidates(n int) {
	m.searchCandidates.Observe(float64(n))
}
