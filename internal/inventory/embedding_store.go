package inventory

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/victorcel/ollama-inventario/internal/postgres"
)

// EmbeddingStore is the durable mapping product -> (vector, source text,
// generation timestamp). The store never caches vectors in memory; postgres
// is the single source of truth.
type EmbeddingStore struct {
	pg *postgres.Postgres
}

// NewEmbeddingStore creates the embedding store on top of the shared
// postgres client.
func NewEmbeddingStore(pg *postgres.Postgres) *EmbeddingStore {
	return &EmbeddingStore{pg: pg}
}

// FindMissing returns the active products that have no embedding record yet.
// Inactive products are never auto-embedded.
func (s *EmbeddingStore) FindMissing(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.pg.DB().WithContext(ctx).
		Raw(`SELECT p.*
		     FROM products p
		     LEFT JOIN product_embeddings pe ON p.id = pe.product_id
		     WHERE pe.id IS NULL AND p.active = true
		     ORDER BY p.id`).
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("embedding store: find missing: %w", postgres.TranslateError(err))
	}
	return products, nil
}

// FindAllActive returns every active product. Used only under forced full
// refresh, after DeleteAll has emptied the store.
func (s *EmbeddingStore) FindAllActive(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.pg.DB().WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("embedding store: find all: %w", postgres.TranslateError(err))
	}
	return products, nil
}

// Upsert writes the embedding record for a product as one atomic statement.
// On conflict by product id it replaces vector, source text, and generation
// timestamp together, so concurrent writers race as last-write-wins on the
// whole record and no torn state is ever visible.
func (s *EmbeddingStore) Upsert(ctx context.Context, productID int64, vector []float32, sourceText string) error {
	return upsertEmbedding(s.pg.DB().WithContext(ctx), productID, vector, sourceText)
}

// upsertEmbedding is the shared upsert statement, also used inside the
// product-creation transaction.
func upsertEmbedding(tx *gorm.DB, productID int64, vector []float32, sourceText string) error {
	err := tx.Exec(`INSERT INTO product_embeddings (product_id, embedding, source_text, generated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (product_id)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			source_text = EXCLUDED.source_text,
			generated_at = CURRENT_TIMESTAMP`,
		productID, pgvector.NewVector(vector), sourceText).Error
	if err != nil {
		return fmt.Errorf("embedding store: upsert product %d: %w", productID, postgres.TranslateError(err))
	}
	return nil
}

// DeleteAll discards every stored vector. Only the forced-refresh mode calls
// this, right before regenerating; catalog rows are untouched.
func (s *EmbeddingStore) DeleteAll(ctx context.Context) error {
	if err := s.pg.DB().WithContext(ctx).Exec(`DELETE FROM product_embeddings`).Error; err != nil {
		return fmt.Errorf("embedding store: delete all: %w", postgres.TranslateError(err))
	}
	return nil
}

// DistanceLookup computes the cosine distance between the query vector and
// every stored vector of an active product. The result is returned without
// ORDER BY or LIMIT: ranking and truncation belong to the retrieval engine,
// which needs the complete set to guarantee a total sort before slicing.
func (s *EmbeddingStore) DistanceLookup(ctx context.Context, queryVector []float32) ([]ProductDistance, error) {
	var rows []ProductDistance
	err := s.pg.DB().WithContext(ctx).
		Raw(`SELECT
		         p.id,
		         p.code,
		         p.name,
		         p.description,
		         p.category,
		         p.price,
		         p.stock,
		         pe.embedding <=> ? AS distance
		     FROM product_embeddings pe
		     JOIN products p ON pe.product_id = p.id
		     WHERE p.active = true`,
			pgvector.NewVector(queryVector)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("embedding store: distance lookup: %w", postgres.TranslateError(err))
	}
	return rows, nil
}

// Count returns the number of embedding records.
func (s *EmbeddingStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pg.DB().WithContext(ctx).Model(&ProductEmbedding{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("embedding store: count: %w", postgres.TranslateError(err))
	}
	return count, nil
}
