// Package search turns free-text queries into ranked product matches using
// the stored embeddings.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/victorcel/ollama-inventario/internal/inventory"
	"github.com/victorcel/ollama-inventario/internal/logger"
)

// Limits for result truncation. The limit is applied after the full ranking
// is computed, never pushed into the distance query.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Store is what the engine needs from the embedding store.
type Store interface {
	DistanceLookup(ctx context.Context, queryVector []float32) ([]inventory.ProductDistance, error)
}

// Embedder is what the engine needs from the embedding client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Match is one ranked result. Similarity is 1 - cosine distance, so higher
// is better.
type Match struct {
	inventory.ProductDistance
	Similarity float64 `json:"similarity"`
}

// Result is a ranked search response. TotalCandidates counts every active
// product with an embedding that was considered, before truncation.
type Result struct {
	Query           string
	Matches         []Match
	TotalCandidates int
}

// Engine ranks products against a query embedding.
type Engine struct {
	store    Store
	embedder Embedder
	log      *logger.Logger
}

// NewEngine creates a retrieval engine.
func NewEngine(store Store, embedder Embedder, log *logger.Logger) *Engine {
	return &Engine{store: store, embedder: embedder, log: log}
}

// Search embeds the query once, computes the distance to every stored vector
// of an active product, sorts the complete candidate set, and truncates to
// limit.
//
// The sort is by ascending distance with ascending product id as tie-break,
// which makes the output reproducible even when the metric produces exact
// ties. Sorting the full set before slicing is a correctness requirement:
// combining the vector ORDER BY with a row LIMIT inside one indexed query
// can silently distort the ranking, so the store returns everything and the
// slice happens here.
func (e *Engine) Search(ctx context.Context, query string, limit int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", inventory.ErrValidation)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	queryVector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	candidates, err := e.store.DistanceLookup(ctx, queryVector)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].ID < candidates[j].ID
	})

	total := len(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{
			ProductDistance: c,
			Similarity:      1 - c.Distance,
		}
	}

	e.log.Info("semantic search", nil, map[string]interface{}{
		"query":      query,
		"returned":   len(matches),
		"candidates": total,
	})

	return &Result{
		Query:           query,
		Matches:         matches,
		TotalCandidates: total,
	}, nil
}
