package pgdb

import (
	"fmt"
	"strings"

	"github.com/expressimports/backend/internal/usecase"
)

const productColumns = `id, name, description, price, original_price, category, image_emoji,
	stock_quantity, in_stock, is_offer, is_new, is_premium, shipping_info, image_key,
	created_at, updated_at`

// ProductFilter собирает WHERE для выборки каталога из именованных условий.
// Значения всегда передаются параметрами.
type ProductFilter struct {
	conds []string
	args  []any
}

func NewProductFilter() *ProductFilter {
	return &ProductFilter{}
}

// FromListFilter переносит параметры запроса в условия.
func FromListFilter(f usecase.ProductListFilter) *ProductFilter {
	return NewProductFilter().
		Search(f.Search).
		Category(f.Category).
		InStockOnly(f.InStockOnly)
}

// Search ищет подстроку без учёта регистра в названии, описании и категории.
func (f *ProductFilter) Search(term string) *ProductFilter {
	if term == "" {
		return f
	}

	n := f.bind("%" + escapeLike(term) + "%")
	f.conds = append(f.conds, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR category ILIKE %[1]s)", n))
	return f
}

func (f *ProductFilter) Category(category string) *ProductFilter {
	if category == "" {
		return f
	}

	f.conds = append(f.conds, "category = "+f.bind(category))
	return f
}

func (f *ProductFilter) InStockOnly(only bool) *ProductFilter {
	if only {
		f.conds = append(f.conds, "in_stock = TRUE")
	}
	return f
}

// Query возвращает готовый SELECT и его аргументы.
func (f *ProductFilter) Query() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(productColumns)
	sb.WriteString(" FROM products")
	if len(f.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(f.conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	return sb.String(), f.args
}

func (f *ProductFilter) bind(v any) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
