// Package health reports the readiness of the service's collaborators: the
// catalog store and the embedding provider.
package health

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Statuses for the overall report and the individual probes.
const (
	StatusOK       = "ok"
	StatusWarning  = "warning"
	StatusDegraded = "degraded"
	StatusError    = "error"
)

// Counter is a read-only row count, served by the catalog repositories.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ModelLister exposes the models installed on the embedding provider.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// PostgresStatus is the store probe result.
type PostgresStatus struct {
	Status     string `json:"status"`
	Products   int64  `json:"products,omitempty"`
	Embeddings int64  `json:"embeddings,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OllamaStatus is the provider probe result.
type OllamaStatus struct {
	Status          string `json:"status"`
	ConfiguredModel string `json:"configured_model"`
	ModelAvailable  bool   `json:"model_available"`
	InstalledModels int    `json:"installed_models"`
	Error           string `json:"error,omitempty"`
}

// Report aggregates both probes.
type Report struct {
	Status   string         `json:"status"`
	Postgres PostgresStatus `json:"postgres"`
	Ollama   OllamaStatus   `json:"ollama"`
}

// HTTPStatus maps the overall status onto a response code: only a hard error
// is 503; a degraded system still serves traffic.
func (r *Report) HTTPStatus() int {
	if r.Status == StatusError {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Checker runs the readiness probes.
type Checker struct {
	products   Counter
	embeddings Counter
	provider   ModelLister
	model      string
}

// NewChecker wires the probes. model is the embedding model the deployment
// is configured for; its absence on the provider is a warning, not an error.
func NewChecker(products, embeddings Counter, provider ModelLister, model string) *Checker {
	return &Checker{
		products:   products,
		embeddings: embeddings,
		provider:   provider,
		model:      model,
	}
}

// Check probes postgres and the embedding provider in parallel and derives
// the overall status: error when any probe failed outright, degraded when
// any probe warns, ok otherwise.
func (c *Checker) Check(ctx context.Context) *Report {
	report := &Report{}

	var g errgroup.Group

	g.Go(func() error {
		report.Postgres = c.checkPostgres(ctx)
		return nil
	})
	g.Go(func() error {
		report.Ollama = c.checkOllama(ctx)
		return nil
	})
	// Probes capture their own failures; Wait never returns an error here.
	_ = g.Wait()

	switch {
	case report.Postgres.Status == StatusError || report.Ollama.Status == StatusError:
		report.Status = StatusError
	case report.Postgres.Status == StatusOK && report.Ollama.Status == StatusOK:
		report.Status = StatusOK
	default:
		report.Status = StatusDegraded
	}

	return report
}

func (c *Checker) checkPostgres(ctx context.Context) PostgresStatus {
	products, err := c.products.Count(ctx)
	if err != nil {
		return PostgresStatus{Status: StatusError, Error: err.Error()}
	}

	embeddings, err := c.embeddings.Count(ctx)
	if err != nil {
		return PostgresStatus{Status: StatusError, Error: err.Error()}
	}

	return PostgresStatus{
		Status:     StatusOK,
		Products:   products,
		Embeddings: embeddings,
	}
}

func (c *Checker) checkOllama(ctx context.Context) OllamaStatus {
	models, err := c.provider.ListModels(ctx)
	if err != nil {
		return OllamaStatus{
			Status:          StatusError,
			ConfiguredModel: c.model,
			Error:           err.Error(),
		}
	}

	available := false
	for _, name := range models {
		if strings.Contains(name, c.model) {
			available = true
			break
		}
	}

	status := StatusOK
	if !available {
		status = StatusWarning
	}

	return OllamaStatus{
		Status:          status,
		ConfiguredModel: c.model,
		ModelAvailable:  available,
		InstalledModels: len(models),
	}
}
