package inventory

import (
	"context"
	"fmt"

	"github.com/victorcel/ollama-inventario/internal/postgres"
)

// Migrate creates the pgvector extension and the catalog schema. Safe to run
// on every start; all statements are idempotent.
func Migrate(ctx context.Context, pg *postgres.Postgres) error {
	if _, err := pg.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("inventory: create vector extension: %w", err)
	}

	if err := pg.Migrate(&Product{}, &ProductEmbedding{}); err != nil {
		return fmt.Errorf("inventory: migrate schema: %w", err)
	}

	return nil
}
