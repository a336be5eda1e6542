package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/victorcel/ollama-inventario/internal/postgres"
)

// defaultPerPage and maxPerPage bound catalog listing pagination.
const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ProductRepository provides catalog row access on top of the shared
// postgres client.
type ProductRepository struct {
	pg *postgres.Postgres
}

// NewProductRepository creates the catalog repository.
func NewProductRepository(pg *postgres.Postgres) *ProductRepository {
	return &ProductRepository{pg: pg}
}

// GetByID returns a product together with its embedding status. Inactive
// products are returned too; presentation layers decide what to expose.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*ProductDetail, error) {
	var product Product
	err := r.pg.DB().WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(postgres.TranslateError(err), postgres.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("product repository: get %d: %w", id, postgres.TranslateError(err))
	}

	detail := &ProductDetail{Product: product}

	var emb ProductEmbedding
	err = r.pg.DB().WithContext(ctx).First(&emb, "product_id = ?", id).Error
	switch {
	case err == nil:
		detail.HasEmbedding = true
		generatedAt := emb.GeneratedAt
		detail.EmbeddingGeneratedAt = &generatedAt
	case errors.Is(postgres.TranslateError(err), postgres.ErrRecordNotFound):
		// No embedding yet; the detail still renders.
	default:
		return nil, fmt.Errorf("product repository: embedding status %d: %w", id, postgres.TranslateError(err))
	}

	return detail, nil
}

// ListPage is one page of the catalog listing.
type ListPage struct {
	Products   []Product
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// List returns a page of active products ordered by name, optionally
// filtered by category. page starts at 1; perPage defaults to 20 and is
// capped at 100.
func (r *ProductRepository) List(ctx context.Context, page, perPage int, category string) (*ListPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	query := r.pg.DB().WithContext(ctx).Model(&Product{}).Where("active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("product repository: count listing: %w", postgres.TranslateError(err))
	}

	var products []Product
	err := query.
		Order("name").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("product repository: list: %w", postgres.TranslateError(err))
	}

	return &ListPage{
		Products:   products,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// UpdateFields applies a partial column update and returns the refreshed
// row. ErrProductNotFound is returned when the id does not exist.
func (r *ProductRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Product, error) {
	result := r.pg.DB().WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("product repository: update %d: %w", id, postgres.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	var product Product
	if err := r.pg.DB().WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("product repository: reload %d: %w", id, postgres.TranslateError(err))
	}
	return &product, nil
}

// Deactivate soft-deletes a product. The row is kept, its embedding is kept,
// and both drop out of search and default listings. Deactivating a product
// that does not exist or is already inactive returns ErrProductNotFound.
func (r *ProductRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.pg.DB().WithContext(ctx).
		Model(&Product{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("product repository: deactivate %d: %w", id, postgres.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Count returns the total number of catalog rows, active or not. Consumed by
// the health collaborator.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pg.DB().WithContext(ctx).Model(&Product{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("product repository: count: %w", postgres.TranslateError(err))
	}
	return count, nil
}
