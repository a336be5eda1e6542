// Command embedding-sync runs one embedding synchronization batch against
// the catalog.
//
// By default it only generates vectors for active products that have none.
// With -force it first discards every stored vector and regenerates the full
// active catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/postgres"
	"github.com/victorcel/ollama-inventario/internal/syncer"
)

func main() {
	force := flag.Bool("force", false, "discard all stored embeddings and regenerate every active product")
	flag.Parse()

	log := logger.NewLoggerClient(logger.NewConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *force); err != nil {
		log.Error("sync run failed", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, force bool) error {
	pg, err := postgres.NewPostgres(postgres.NewConfig())
	if err != nil {
		return err
	}
	defer func() {
		_ = pg.GracefulShutdown()
	}()

	if err := inventory.Migrate(ctx, pg); err != nil {
		return err
	}

	client, err := embedding.NewClient(embedding.NewConfig())
	if err != nil {
		return err
	}
	defer client.Close()

	store := inventory.NewEmbeddingStore(pg)
	engine := syncer.NewEngine(store, client, log)

	report, err := engine.Run(ctx, force)
	if report != nil {
		fmt.Println(report)
	}
	if err != nil {
		return err
	}

	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d products failed", report.Failed(), report.Scanned)
	}
	return nil
}
