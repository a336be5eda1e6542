package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides the provider details (endpoints, HTTP) from the application layer
// and enforces the system-wide vector dimension: a provider returning a
// vector of any other length is a provider error, never silently truncated
// or padded.
type Client struct {
	provider  Provider
	dimension int
}

// NewClient constructs a Client from Config. It validates the config and
// internally constructs the Ollama provider. Application code should depend
// on *Client, not on Provider or OllamaProvider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newOllamaProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	return &Client{provider: p, dimension: cfg.Dimension}, nil
}

// NewClientWithProvider wires an explicit provider. Used by tests and by
// deployments substituting another embedding backend.
func NewClientWithProvider(p Provider, dimension int) *Client {
	return &Client{provider: p, dimension: dimension}
}

// Embed executes a single embedding request and verifies the result has the
// configured dimension.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(vec) != c.dimension {
		return nil, fmt.Errorf("%w: got vector of dimension %d, expected %d",
			ErrProvider, len(vec), c.dimension)
	}

	return vec, nil
}

// ListModels returns the model identifiers available on the provider.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	return c.provider.ListModels(ctx)
}

// Dimension returns the system-wide embedding dimension.
func (c *Client) Dimension() int {
	return c.dimension
}

// Close releases any internal resources used by the provider.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
