// Package syncer brings the embedding store into agreement with the catalog:
// it finds products lacking a vector (or all of them, under forced refresh),
// composes their text, calls the provider, and upserts the results with
// per-product failure isolation.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
)

// Store is what the engine needs from the embedding store.
type Store interface {
	FindMissing(ctx context.Context) ([]inventory.Product, error)
	FindAllActive(ctx context.Context) ([]inventory.Product, error)
	Upsert(ctx context.Context, productID int64, vector []float32, sourceText string) error
	DeleteAll(ctx context.Context) error
}

// Embedder is what the engine needs from the embedding client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DefaultDelay is the pause between provider calls. The provider is a
// shared, possibly resource-constrained service; the serial loop plus this
// cooperative throttle keeps the request rate low without a hard concurrency
// limit.
const DefaultDelay = 500 * time.Millisecond

// Engine runs embedding synchronization batches.
type Engine struct {
	store    Store
	embedder Embedder
	log      *logger.Logger
	delay    time.Duration
}

// NewEngine creates a sync engine with the default inter-call delay.
func NewEngine(store Store, embedder Embedder, log *logger.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		log:      log,
		delay:    DefaultDelay,
	}
}

// WithDelay overrides the inter-call delay. A zero delay disables the
// throttle; tests use this.
func (e *Engine) WithDelay(d time.Duration) *Engine {
	e.delay = d
	return e
}

// Run executes one synchronization batch.
//
// Under forced refresh every stored vector is discarded first, regardless of
// whether its product changed, and the full active catalog is regenerated.
// Otherwise only products missing an embedding are processed.
//
// Products are handled sequentially in store-scan order. A provider failure
// for one product is recorded in the report and never aborts the batch or
// rolls back earlier upserts. Cancellation is honored between products; a
// cancelled run returns the partial report together with the context error.
func (e *Engine) Run(ctx context.Context, force bool) (*Report, error) {
	if force {
		e.log.Info("forced refresh: discarding all stored embeddings", nil)
		if err := e.store.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("syncer: forced refresh: %w", err)
		}
	}

	var (
		products []inventory.Product
		err      error
	)
	if force {
		products, err = e.store.FindAllActive(ctx)
	} else {
		products, err = e.store.FindMissing(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("syncer: scan: %w", err)
	}

	report := &Report{Scanned: len(products)}
	e.log.Info("sync batch starting", nil, map[string]interface{}{
		"products": len(products),
		"forced":   force,
	})

	for i, product := range products {
		if i > 0 && e.delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(e.delay):
			}
		} else if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := e.syncOne(ctx, product); err != nil {
			report.Failures = append(report.Failures, ItemFailure{
				ProductID: product.ID,
				Code:      product.Code,
				Err:       err,
			})
			e.log.Error("embedding generation failed, continuing batch", err,
				map[string]interface{}{"product_id": product.ID, "code": product.Code})
			continue
		}

		report.Succeeded++
	}

	e.log.Info("sync batch finished", nil, map[string]interface{}{
		"scanned":   report.Scanned,
		"succeeded": report.Succeeded,
		"failed":    len(report.Failures),
	})
	return report, nil
}

// syncOne composes, embeds, and persists a single product.
func (e *Engine) syncOne(ctx context.Context, product inventory.Product) error {
	text := embedding.ComposeProductText(embedding.ProductFields{
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Supplier:    product.Supplier,
	})

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	return e.store.Upsert(ctx, product.ID, vector, text)
}
