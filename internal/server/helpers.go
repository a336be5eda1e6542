package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/inventory"
)

// writeJSON encodes data and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeDomainError maps the error taxonomy onto HTTP responses: validation
// and duplicate-code → 400, not found → 404, provider failure → 500 with an
// explicit message, anything else → 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrDuplicateCode):
		writeError(w, http.StatusBadRequest, "duplicate product code or integrity error")
	case errors.Is(err, inventory.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case embedding.IsProviderError(err):
		writeError(w, http.StatusInternalServerError, "error generating embedding")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// readJSONBody decodes the request body into v. It checks the content type,
// caps the body at 1MB, and rejects trailing data.
func readJSONBody(r *http.Request, v interface{}) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("expected Content-Type application/json")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected trailing data in request body")
	}
	return nil
}
