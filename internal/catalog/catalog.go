package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when no product exists with the given ID.
var ErrProductNotFound = errors.New("product not found")

//go:embed seed.json
var defaultSeed []byte

// Catalog is an immutable, ordered collection of products. It is built once
// at startup and safe for concurrent readers; catalog order is the tie-break
// order of the query pipeline.
type Catalog struct {
	products []Product
	byID     map[uuid.UUID]int
}

// New builds a catalog from the given products, preserving their order.
// Duplicate IDs are rejected.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[uuid.UUID]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product ID in catalog: %s", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Default builds the catalog from the embedded seed data.
func Default() (*Catalog, error) {
	return fromJSON(defaultSeed)
}

// LoadFile builds the catalog from a JSON seed file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed file %s: %w", path, err)
	}
	return fromJSON(data)
}

func fromJSON(data []byte) (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	return New(products)
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns a copy of all products in catalog order.
func (c *Catalog) Products() []Product {
	list := make([]Product, len(c.products))
	copy(list, c.products)
	return list
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (c *Catalog) FindByID(id uuid.UUID) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}
