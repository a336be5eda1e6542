package embedding

import (
	"context"
	"errors"
)

// Provider contract. Implemented by the Ollama HTTP provider; tests and
// alternative backends (hosted APIs, in-process models) can substitute their
// own implementation without touching sync or retrieval logic.
type Provider interface {
	// Embed generates the embedding vector for a single text using the
	// configured model.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ListModels returns the model identifiers installed on the provider.
	ListModels(ctx context.Context) ([]string, error)
}

// ErrProvider marks any failure of the embedding provider: the service being
// unreachable, the model rejecting the input, or malformed output. Match with
// errors.Is.
var ErrProvider = errors.New("embedding provider error")

// IsProviderError reports whether err originates from the embedding provider.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProvider)
}
