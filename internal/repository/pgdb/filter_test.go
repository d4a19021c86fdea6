package pgdb

import (
	"testing"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestProductFilter_Empty(t *testing.T) {
	q, args := NewProductFilter().Query()

	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY created_at DESC, id DESC")
	assert.Empty(t, args)
}

func TestProductFilter_AllPredicates(t *testing.T) {
	q, args := FromListFilter(usecase.ProductListFilter{
		Search:      "hue",
		Category:    "hogar",
		InStockOnly: true,
	}).Query()

	assert.Contains(t, q, "WHERE (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1) AND category = $2 AND in_stock = TRUE")
	assert.Equal(t, []any{"%hue%", "hogar"}, args)
}

func TestProductFilter_ValuesAreNeverInlined(t *testing.T) {
	evil := "x'; DROP TABLE products; --"
	q, args := NewProductFilter().Category(evil).Search("50%_off").Query()

	assert.NotContains(t, q, "DROP")
	assert.Equal(t, []any{evil, `%50\%\_off%`}, args)
	assert.Contains(t, q, "category = $1")
	assert.Contains(t, q, "name ILIKE $2")
}
