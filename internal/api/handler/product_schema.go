package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/storefront/microservices/internal/core/ports"
)

// productRequest is the create/update body. Price stays untyped so a
// non-numeric value reaches validation instead of failing the decode.
type productRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       any     `json:"price" swaggertype:"number"`
	Available   *bool   `json:"available"`
}

type listProductsQuery struct {
	Q     string `validate:"max=256"`
	Skip  *int
	Limit *int
}

func (r *productRequest) toInput() *ports.ProductInput {
	return &ports.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       parsePrice(r.Price),
		Available:   r.Available,
	}
}

// parsePrice accepts JSON numbers and numeric strings. Anything else,
// including "Inf" and "NaN", is treated as absent.
func parsePrice(v any) *float64 {
	switch p := v.(type) {
	case float64:
		return &p
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// optionalInt returns nil for missing or non-numeric values.
func optionalInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}
