package inventory

import (
	"context"

	"go.uber.org/fx"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/postgres"
)

// FXModule provides the catalog repositories and the write service, and runs
// schema migrations on start.
var FXModule = fx.Module("inventory",
	fx.Provide(
		NewProductRepository,
		NewEmbeddingStore,
		NewServiceWithDI,
	),
	fx.Invoke(RegisterMigrations),
)

// ServiceParams groups the service dependencies for fx.
type ServiceParams struct {
	fx.In

	Postgres *postgres.Postgres
	Products *ProductRepository
	Embedder *embedding.Client
	Logger   *logger.Logger
}

// NewServiceWithDI builds the catalog service from the container.
func NewServiceWithDI(params ServiceParams) *Service {
	return NewService(params.Postgres, params.Products, params.Embedder, params.Logger)
}

// RegisterMigrations runs catalog migrations during application start.
func RegisterMigrations(lc fx.Lifecycle, pg *postgres.Postgres) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return Migrate(ctx, pg)
		},
	})
}
