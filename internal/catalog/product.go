// Package catalog holds the immutable product catalog and the query pipeline
// used to produce filtered, ordered product listings.
package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// Product represents a single purchasable item. Products are catalog-sourced
// and immutable; prices are in cents.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	// Material is a comma-separated list of material tags, e.g. "gold, diamond".
	Material           string   `json:"material"`
	PriceCents         int64    `json:"price_cents"`
	OriginalPriceCents int64    `json:"original_price_cents,omitempty"` // > 0 only when discounted
	Images             []string `json:"images"`
	Rating             float64  `json:"rating"`
	Reviews            int      `json:"reviews"`
	InStock            bool     `json:"in_stock"`
	Featured           bool     `json:"featured"`
}

// Materials returns the product's material tags, lower-cased and trimmed.
func (p Product) Materials() []string {
	if p.Material == "" {
		return nil
	}
	parts := strings.Split(p.Material, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasMaterial reports whether the product carries at least one of the
// requested material tags. An empty request matches every product.
func (p Product) HasMaterial(requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	own := p.Materials()
	for _, want := range requested {
		want = strings.ToLower(strings.TrimSpace(want))
		for _, have := range own {
			if have == want {
				return true
			}
		}
	}
	return false
}
