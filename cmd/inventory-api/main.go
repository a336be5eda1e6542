// Command inventory-api serves the catalog CRUD and semantic-search HTTP
// API.
package main

import (
	"go.uber.org/fx"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/metrics"
	"github.com/victorcel/ollama-inventario/internal/postgres"
	"github.com/victorcel/ollama-inventario/internal/server"
)

func main() {
	app := fx.New(
		fx.Provide(
			logger.NewConfig,
			postgres.NewConfig,
		),

		logger.FXModule,
		postgres.FXModule,
		embedding.FXModule,
		metrics.FXModule,
		inventory.FXModule,
		server.FXModule,
	)

	app.Run()
}
