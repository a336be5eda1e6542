package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	n   int64
	err error
}

func (c fakeCounter) Count(ctx context.Context) (int64, error) {
	return c.n, c.err
}

type fakeLister struct {
	models []string
	err    error
}

func (l fakeLister) ListModels(ctx context.Context) ([]string, error) {
	return l.models, l.err
}

func TestCheck_AllHealthy(t *testing.T) {
	checker := NewChecker(
		fakeCounter{n: 12},
		fakeCounter{n: 10},
		fakeLister{models: []string{"all-minilm:latest", "llama3:8b"}},
		"all-minilm",
	)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusOK, report.Status)
	assert.Equal(t, StatusOK, report.Postgres.Status)
	assert.Equal(t, int64(12), report.Postgres.Products)
	assert.Equal(t, int64(10), report.Postgres.Embeddings)
	assert.Equal(t, StatusOK, report.Ollama.Status)
	assert.True(t, report.Ollama.ModelAvailable)
	assert.Equal(t, 2, report.Ollama.InstalledModels)
	assert.Equal(t, http.StatusOK, report.HTTPStatus())
}

func TestCheck_ModelMissingIsDegraded(t *testing.T) {
	checker := NewChecker(
		fakeCounter{n: 5},
		fakeCounter{n: 5},
		fakeLister{models: []string{"llama3:8b"}},
		"all-minilm",
	)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusWarning, report.Ollama.Status)
	assert.False(t, report.Ollama.ModelAvailable)
	assert.Equal(t, "all-minilm", report.Ollama.ConfiguredModel)
	assert.Equal(t, http.StatusOK, report.HTTPStatus(), "degraded still serves traffic")
}

func TestCheck_PostgresFailureIsError(t *testing.T) {
	checker := NewChecker(
		fakeCounter{err: errors.New("connection refused")},
		fakeCounter{n: 0},
		fakeLister{models: []string{"all-minilm:latest"}},
		"all-minilm",
	)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, StatusError, report.Postgres.Status)
	assert.Contains(t, report.Postgres.Error, "connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, report.HTTPStatus())
}

func TestCheck_EmbeddingCountFailureIsError(t *testing.T) {
	checker := NewChecker(
		fakeCounter{n: 7},
		fakeCounter{err: errors.New("relation does not exist")},
		fakeLister{models: []string{"all-minilm:latest"}},
		"all-minilm",
	)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, StatusError, report.Postgres.Status)
}

func TestCheck_OllamaUnreachableIsError(t *testing.T) {
	checker := NewChecker(
		fakeCounter{n: 7},
		fakeCounter{n: 7},
		fakeLister{err: errors.New("dial tcp: connection refused")},
		"all-minilm",
	)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, StatusError, report.Ollama.Status)
	assert.Equal(t, "all-minilm", report.Ollama.ConfiguredModel)
	assert.Equal(t, http.StatusServiceUnavailable, report.HTTPStatus())
}

func TestCheck_ModelMatchIsSubstringBased(t *testing.T) {
	// Installed names carry tags; the configured name matches by substring.
	checker := NewChecker(
		fakeCounter{n: 1},
		fakeCounter{n: 1},
		fakeLister{models: []string{"all-minilm:22m-l6-v2-fp16"}},
		"all-minilm",
	)

	report := checker.Check(context.Background())
	assert.True(t, report.Ollama.ModelAvailable)
	assert.Equal(t, StatusOK, report.Status)
}
