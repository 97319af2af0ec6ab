package catalog

import (
	"sort"
	"strings"
)

// SortKey selects the ordering of query results.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a wire value to a SortKey. An empty value defaults to
// SortFeatured; unknown values are rejected.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case "":
		return SortFeatured, true
	case SortFeatured, SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return SortKey(s), true
	default:
		return "", false
	}
}

// Criteria describes one catalog query. All filters are independent
// predicates ANDed together; zero values disable the respective filter.
type Criteria struct {
	// Search is matched case-insensitively as a substring of the product name.
	Search string
	// Category is an exact-match filter when non-empty.
	Category string
	// MinPrice and MaxPrice are inclusive bounds in cents; nil means unbounded.
	// A range with min > max yields an empty result, never an error.
	MinPrice *int64
	MaxPrice *int64
	// Materials is a set of requested material tags; a product passes when it
	// shares at least one tag. Empty means no material filtering.
	Materials []string
	Sort      SortKey
}

// Query filters the catalog by the criteria and returns the matches ordered
// by the sort key. The sort is stable: products with equal keys keep their
// relative catalog order. Query is pure and safe for concurrent use.
func (c *Catalog) Query(cr Criteria) []Product {
	search := strings.ToLower(cr.Search)

	matched := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if cr.Category != "" && p.Category != cr.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if cr.MinPrice != nil && p.PriceCents < *cr.MinPrice {
			continue
		}
		if cr.MaxPrice != nil && p.PriceCents > *cr.MaxPrice {
			continue
		}
		if !p.HasMaterial(cr.Materials) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, cr.Sort)
	return matched
}

func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents < products[j].PriceCents
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents > products[j].PriceCents
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		// featured and newest share the featured-first partition; within each
		// partition catalog order is preserved. The catalog has no recency
		// field, so "newest" falls back to the same ordering.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Featured && !products[j].Featured
		})
	}
}
