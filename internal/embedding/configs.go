package embedding

import (
	"fmt"
	"os"
	"strconv"
)

// Config for the Ollama embedding client.
type Config struct {
	// Host is the base URL of the Ollama server (no API path appended).
	Host string

	// Model is the embedding model identifier, e.g. "all-minilm".
	Model string

	// Dimension is the system-wide embedding dimension. A provider response
	// with any other dimension is rejected as a provider error.
	Dimension int

	// HTTPTimeoutS is the HTTP timeout in seconds (default 30).
	HTTPTimeoutS int
}

// NewConfig reads the embedding configuration from environment variables.
func NewConfig() *Config {
	timeout := 30
	if v := os.Getenv("OLLAMA_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "all-minilm"
	}

	return &Config{
		Host:         host,
		Model:        model,
		Dimension:    384,
		HTTPTimeoutS: timeout,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("embedding: missing OLLAMA_HOST")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing OLLAMA_MODEL")
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("embedding: dimension must be positive, got %d", c.Dimension)
	}
	return nil
}
