package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/health"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/metrics"
	"github.com/victorcel/ollama-inventario/internal/search"
)

// FXModule provides the HTTP server plus the engines it fronts, and manages
// the serve/shutdown lifecycle.
var FXModule = fx.Module("server",
	fx.Provide(
		NewConfig,
		NewSearchEngine,
		NewHealthChecker,
		NewServerWithDI,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// NewSearchEngine builds the retrieval engine from the container.
func NewSearchEngine(store *inventory.EmbeddingStore, client *embedding.Client, log *logger.Logger) *search.Engine {
	return search.NewEngine(store, client, log)
}

// NewHealthChecker builds the readiness checker from the container.
func NewHealthChecker(products *inventory.ProductRepository, store *inventory.EmbeddingStore,
	client *embedding.Client, embCfg *embedding.Config) *health.Checker {
	return health.NewChecker(products, store, client, embCfg.Model)
}

// ServerParams groups the server dependencies for fx.
type ServerParams struct {
	fx.In

	Config   Config
	Catalog  *inventory.Service
	Searcher *search.Engine
	Checker  *health.Checker
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	EmbCfg   *embedding.Config
}

// NewServerWithDI builds the HTTP server from the container.
func NewServerWithDI(params ServerParams) *Server {
	return NewServer(
		params.Config,
		params.Catalog,
		params.Searcher,
		params.Checker,
		params.Metrics,
		params.Logger,
		params.EmbCfg.Model,
		params.EmbCfg.Dimension,
	)
}

// RegisterServerLifecycle starts the API server on application start and
// drains it on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server terminated", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
