package inventory

import "errors"

// Catalog errors. They are deliberately distinct from provider errors
// (embedding.ErrProvider) and from the postgres sentinels, so callers can
// map each failure kind to its own response.
var (
	// ErrValidation marks a request rejected before any I/O: missing
	// required fields, empty patch, malformed input.
	ErrValidation = errors.New("validation error")

	// ErrProductNotFound is returned when an operation targets a product id
	// that does not exist (or, for deletion, is already inactive).
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateCode is returned when a create collides with an existing
	// business code.
	ErrDuplicateCode = errors.New("duplicate product code")
)
