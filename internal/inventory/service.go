package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/postgres"
)

// Embedder is the capability the catalog service needs from the embedding
// client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service orchestrates catalog writes and the embedding bookkeeping they
// imply.
//
// The two write paths treat provider failures differently on purpose:
// creation requires a consistent embedding to exist at all, so a failed
// provider call rolls the whole create back; an update keeps the catalog
// edit and leaves the previous (now stale) embedding searchable, logging the
// failure only.
type Service struct {
	pg       *postgres.Postgres
	products *ProductRepository
	embedder Embedder
	log      *logger.Logger
}

// NewService creates the catalog service.
func NewService(pg *postgres.Postgres, products *ProductRepository, embedder Embedder, log *logger.Logger) *Service {
	return &Service{
		pg:       pg,
		products: products,
		embedder: embedder,
		log:      log,
	}
}

// CreateProductInput carries the fields of a new product. Code and Name are
// required; everything else is optional.
type CreateProductInput struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Supplier    string  `json:"supplier"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Location    string  `json:"location"`
}

// CreateProduct inserts a product and its embedding in one transaction.
//
// The provider is called inside the transaction: if embedding generation
// fails, the product row itself is not persisted, so an item without an
// embedding can never become visible through the normal creation path.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: missing required fields: code, name", ErrValidation)
	}

	product := Product{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Supplier:    input.Supplier,
		Price:       input.Price,
		Stock:       input.Stock,
		Location:    input.Location,
		Active:      true,
	}

	err := s.pg.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			if errors.Is(postgres.TranslateError(err), postgres.ErrDuplicateKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateCode, input.Code)
			}
			return fmt.Errorf("create product: %w", postgres.TranslateError(err))
		}

		text := embedding.ComposeProductText(composerFields(product))
		vector, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embedding for new product %q: %w", product.Code, err)
		}

		return upsertEmbedding(tx, product.ID, vector, text)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", nil, map[string]interface{}{
		"product_id": product.ID,
		"code":       product.Code,
	})
	return &product, nil
}

// UpdateProductInput is a partial update. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Supplier    *string  `json:"supplier"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Location    *string  `json:"location"`
	Active      *bool    `json:"active"`
}

// fields renders the non-nil members as a column/value map.
func (in UpdateProductInput) fields() map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Supplier != nil {
		updates["supplier"] = *in.Supplier
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Stock != nil {
		updates["stock"] = *in.Stock
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	return updates
}

// touchesEmbedding reports whether the patch changes a field that
// participates in the embedding text.
func (in UpdateProductInput) touchesEmbedding() bool {
	return in.Name != nil || in.Description != nil || in.Category != nil || in.Supplier != nil
}

// UpdateProduct applies a partial update and regenerates the embedding when
// a text-relevant field (name, description, category, supplier) changed.
//
// A provider failure during regeneration does not roll the catalog edit
// back: the previous embedding stays in place, stale but searchable, and the
// failure is logged.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*Product, error) {
	updates := input.fields()
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no valid fields to update", ErrValidation)
	}

	product, err := s.products.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	if input.touchesEmbedding() {
		s.refreshEmbedding(ctx, product)
	}

	return product, nil
}

// refreshEmbedding recomputes and stores the embedding for a product,
// logging instead of failing when the provider or the store rejects it.
func (s *Service) refreshEmbedding(ctx context.Context, product *Product) {
	text := embedding.ComposeProductText(composerFields(*product))

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.log.Error("embedding regeneration failed, product kept with stale embedding", err,
			map[string]interface{}{"product_id": product.ID, "code": product.Code})
		return
	}

	if err := upsertEmbedding(s.pg.DB().WithContext(ctx), product.ID, vector, text); err != nil {
		s.log.Error("embedding upsert failed, product kept with stale embedding", err,
			map[string]interface{}{"product_id": product.ID, "code": product.Code})
		return
	}

	s.log.Info("embedding regenerated", nil, map[string]interface{}{"product_id": product.ID})
}

// DeleteProduct soft-deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deactivated", nil, map[string]interface{}{"product_id": id})
	return nil
}

// GetProduct returns a product with its embedding status.
func (s *Service) GetProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts returns one page of the active catalog.
func (s *Service) ListProducts(ctx context.Context, page, perPage int, category string) (*ListPage, error) {
	return s.products.List(ctx, page, perPage, category)
}

// composerFields maps a product row onto the composer input.
func composerFields(p Product) embedding.ProductFields {
	return embedding.ProductFields{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Supplier:    p.Supplier,
	}
}
