package embedding

import "strings"

// ProductFields carries the catalog fields that participate in the
// embedding text. Only Code and Name are guaranteed non-empty by the
// catalog layer.
type ProductFields struct {
	Code        string
	Name        string
	Description string
	Category    string
	Supplier    string
}

// ComposeProductText builds the text a product is embedded from.
//
// The ordering and repetition are a deliberate weighting strategy: the
// models used here weigh term position and frequency, so the name leads and
// is repeated once with a label, and the category appears under two labels.
// Empty fields are omitted entirely rather than emitting empty labeled
// fragments. Fragments are joined with single spaces.
//
// Pure and deterministic; the exact output is persisted next to the vector
// so staleness can be audited.
func ComposeProductText(p ProductFields) string {
	parts := []string{
		p.Name,
		labeled("Product", p.Name),
		labeled("Categoría", p.Category),
		labeled("Tipo", p.Category),
		p.Description,
		labeled("Código", p.Code),
		labeled("Proveedor", p.Supplier),
	}

	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return strings.Join(nonEmpty, " ")
}

func labeled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}
