package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	mockID1, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")
	mockID2, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174002")

	testCases := []struct {
		name      string
		products  []Product
		expectErr bool
	}{
		{
			name:      "Success - empty catalog",
			products:  nil,
			expectErr: false,
		},
		{
			name: "Success - unique IDs",
			products: []Product{
				{ID: mockID1, Name: "Gold Ring"},
				{ID: mockID2, Name: "Silver Ring"},
			},
			expectErr: false,
		},
		{
			name: "Error - duplicate IDs",
			products: []Product{
				{ID: mockID1, Name: "Gold Ring"},
				{ID: mockID1, Name: "Silver Ring"},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			c, err := New(tc.products)

			// then
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.products), c.Len())
		})
	}
}

func TestDefault(t *testing.T) {
	// when
	c, err := Default()

	// then
	require.NoError(t, err, "embedded seed must parse")
	assert.Greater(t, c.Len(), 0, "embedded seed must not be empty")
	for _, p := range c.Products() {
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.PriceCents)
	}
}

func TestFindByID(t *testing.T) {
	// given
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")
	c, err := New([]Product{{ID: mockID, Name: "Gold Ring", PriceCents: 10000}})
	require.NoError(t, err)

	t.Run("Success - product found", func(t *testing.T) {
		// when
		found, err := c.FindByID(mockID)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Gold Ring", found.Name)
	})

	t.Run("Error - product not found", func(t *testing.T) {
		// when
		_, err := c.FindByID(uuid.New())

		// then
		require.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProducts_ReturnsCopy(t *testing.T) {
	// given
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")
	c, err := New([]Product{{ID: mockID, Name: "Gold Ring"}})
	require.NoError(t, err)

	// when
	list := c.Products()
	list[0].Name = "mutated"

	// then
	found, err := c.FindByID(mockID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", found.Name, "catalog must not observe caller mutations")
}

func TestMaterials(t *testing.T) {
	testCases := []struct {
		name     string
		material string
		expected []string
	}{
		{name: "empty", material: "", expected: nil},
		{name: "single tag", material: "gold", expected: []string{"gold"}},
		{name: "trims and lowercases", material: " Gold , Diamond ", expected: []string{"gold", "diamond"}},
		{name: "drops empty segments", material: "gold,,silver", expected: []string{"gold", "silver"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Material: tc.material}
			assert.Equal(t, tc.expected, p.Materials())
		})
	}
}

func TestHasMaterial(t *testing.T) {
	p := Product{Material: "gold, diamond"}

	testCases := []struct {
		name      string
		requested []string
		expected  bool
	}{
		{name: "empty request matches everything", requested: nil, expected: true},
		{name: "shared tag", requested: []string{"gold"}, expected: true},
		{name: "case insensitive", requested: []string{"DIAMOND"}, expected: true},
		{name: "one of many", requested: []string{"pearl", "diamond"}, expected: true},
		{name: "no shared tag", requested: []string{"pearl"}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, p.HasMaterial(tc.requested))
		})
	}
}
