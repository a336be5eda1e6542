package inventory

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Product is a catalog item. Products are never physically removed; the
// Active flag implements soft deletion and inactive rows are excluded from
// search and default listings.
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Supplier    string    `json:"supplier,omitempty"`
	Price       float64   `gorm:"type:numeric(12,2)" json:"price"`
	Stock       int       `json:"stock"`
	Location    string    `json:"location,omitempty"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName implements the gorm table naming convention.
func (Product) TableName() string {
	return "products"
}

// ProductEmbedding holds the vector representation of exactly one product,
// together with the exact source text it was generated from. At most one
// record exists per product; writes go through a single atomic upsert, so a
// record is either absent or fully consistent with its source text.
type ProductEmbedding struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	ProductID   int64           `gorm:"uniqueIndex;not null"`
	Product     Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Embedding   pgvector.Vector `gorm:"type:vector(384)"`
	SourceText  string          `gorm:"type:text"`
	GeneratedAt time.Time       `gorm:"autoCreateTime"`
}

// TableName implements the gorm table naming convention.
func (ProductEmbedding) TableName() string {
	return "product_embeddings"
}

// ProductDistance is one semantic-search candidate: a product summary plus
// its raw distance to the query vector. Ranking happens in the retrieval
// engine, not in the store.
type ProductDistance struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Distance    float64 `json:"-"`
}

// ProductDetail is a product joined with its embedding status, served by the
// detail endpoint and the staleness tooling.
type ProductDetail struct {
	Product
	HasEmbedding         bool       `json:"has_embedding"`
	EmbeddingGeneratedAt *time.Time `json:"embedding_generated_at,omitempty"`
}
