package server

import (
	"net/http"
	"strconv"

	"github.com/victorcel/ollama-inventario/internal/embedding"
	"github.com/victorcel/ollama-inventario/internal/inventory"
)

// searchRequest is the semantic-search payload.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleSearch serves POST /api/products/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := readJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.searcher.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		// Validation rejections never reach the provider; only count actual
		// embedding failures.
		if embedding.IsProviderError(err) {
			s.metrics.CountEmbedding("failure")
		}
		writeDomainError(w, err)
		return
	}

	s.metrics.CountEmbedding("success")
	s.metrics.ObserveSearchCandidates(result.TotalCandidates)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"query":           result.Query,
		"count":           len(result.Matches),
		"total_available": result.TotalCandidates,
		"results":         result.Matches,
	})
}

// handleList serves GET /api/products with pagination and an optional
// category filter.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	category := r.URL.Query().Get("category")

	listing, err := s.catalog.ListProducts(r.Context(), page, perPage, category)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"page":        listing.Page,
		"per_page":    listing.PerPage,
		"total":       listing.Total,
		"total_pages": listing.TotalPages,
		"products":    listing.Products,
	})
}

// handleCreate serves POST /api/products. Creating a product generates its
// embedding in the same transaction; a provider failure aborts the create.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input inventory.CreateProductInput
	if err := readJSONBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product, err := s.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		if embedding.IsProviderError(err) {
			s.metrics.CountEmbedding("failure")
		}
		writeDomainError(w, err)
		return
	}

	s.metrics.CountEmbedding("success")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"product_id": product.ID,
		"message":    "product created with embedding",
	})
}

// handleGet serves GET /api/products/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	detail, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": detail,
	})
}

// handleUpdate serves PUT /api/products/{id}. The embedding is regenerated
// only when a text-relevant field changed; a provider failure there keeps
// the catalog edit.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var input inventory.UpdateProductInput
	if err := readJSONBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product, err := s.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"product_id": product.ID,
		"message":    "product updated",
	})
}

// handleDelete serves DELETE /api/products/{id} (soft delete).
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "product deleted",
	})
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.checker.Check(r.Context())
	writeJSON(w, report.HTTPStatus(), report)
}

// handleSuggestions serves GET /api/products/suggestions: static guidance
// for writing queries the embedding model resolves well.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"suggestions": []string{
			"laptop notebook Dell XPS",
			"mouse inalámbrico Logitech wireless",
			"teclado mecánico RGB switches",
			"monitor pantalla LG 27 pulgadas 4K",
			"silla oficina ergonómica lumbar",
		},
		"tips": []string{
			"include specific brands in the query",
			"use several synonyms: \"laptop notebook\"",
			"mention characteristics: \"wireless\", \"mechanical\", \"ergonomic\"",
			"spell out sizes and models: \"27 inch\", \"XPS 13\"",
			"avoid overly generic terms: \"device\", \"thing\"",
		},
	})
}

// handleHome serves GET / with a short API self-description.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"api":     "inventory catalog with semantic search",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /":                         "this document",
			"GET /health":                   "service status",
			"GET /api/products":             "list products (paginated)",
			"GET /api/products/{id}":        "product detail",
			"POST /api/products":            "create product",
			"PUT /api/products/{id}":        "update product",
			"DELETE /api/products/{id}":     "soft-delete product",
			"POST /api/products/search":     "semantic search",
			"GET /api/products/suggestions": "query suggestions",
		},
		"embedding_model": s.model,
		"dimensions":      s.dimension,
	})
}

// productID parses the {id} path segment, writing a 400 on malformed input.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
