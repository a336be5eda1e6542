// Package server exposes the inventory catalog and its semantic search over
// HTTP.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/victorcel/ollama-inventario/internal/health"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/metrics"
	"github.com/victorcel/ollama-inventario/internal/search"
)

// Config for the HTTP server.
type Config struct {
	// Address the API listens on, e.g. ":5100".
	Address string
}

// NewConfig reads the HTTP configuration from environment variables.
func NewConfig() Config {
	address := os.Getenv("HTTP_ADDRESS")
	if address == "" {
		address = ":5100"
	}
	return Config{Address: address}
}

// Server carries the handler dependencies and the underlying http.Server.
type Server struct {
	httpServer *http.Server

	catalog  *inventory.Service
	searcher *search.Engine
	checker  *health.Checker
	metrics  *metrics.Metrics
	log      *logger.Logger

	model     string
	dimension int
}

// NewServer builds the router and wires middleware around every endpoint.
func NewServer(cfg Config, catalog *inventory.Service, searcher *search.Engine,
	checker *health.Checker, m *metrics.Metrics, log *logger.Logger,
	model string, dimension int) *Server {

	s := &Server{
		catalog:   catalog,
		searcher:  searcher,
		checker:   checker,
		metrics:   m,
		log:       log,
		model:     model,
		dimension: dimension,
	}

	mux := http.NewServeMux()
	route := func(pattern, endpoint string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, Chain(
			RequestID(),
			CORS(),
			Observe(endpoint, log, m),
		)(handler))
	}

	route("POST /api/products/search", "/api/products/search", s.handleSearch)
	route("GET /api/products/suggestions", "/api/products/suggestions", s.handleSuggestions)
	route("GET /api/products", "/api/products", s.handleList)
	route("POST /api/products", "/api/products", s.handleCreate)
	route("GET /api/products/{id}", "/api/products/{id}", s.handleGet)
	route("PUT /api/products/{id}", "/api/products/{id}", s.handleUpdate)
	route("DELETE /api/products/{id}", "/api/products/{id}", s.handleDelete)
	route("GET /health", "/health", s.handleHealth)
	route("GET /{$}", "/", s.handleHome)

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the router; tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving in the calling goroutine.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", nil, map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
