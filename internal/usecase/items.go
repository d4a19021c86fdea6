package usecase

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/expressimports/backend/pkg/e"
)

// maxQuantity ограничивает количество и остаток диапазоном INTEGER в БД.
const maxQuantity = math.MaxInt32

// normalizeItems проверяет позиции корзины и подставляет количество 1 вместо 0.
func normalizeItems(items []OrderItemReq) ([]OrderItemReq, error) {
	if len(items) == 0 {
		return nil, e.ErrEmptyItems
	}

	out := make([]OrderItemReq, 0, len(items))
	for i, it := range items {
		if it.ProductID <= 0 {
			return nil, e.Wrap(fmt.Sprintf("items[%d]", i), e.ErrInvalidID)
		}
		if it.Quantity < 0 || it.Quantity > maxQuantity {
			return nil, e.Wrap(fmt.Sprintf("items[%d]", i), e.ErrInvalidQuantity)
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		out = append(out, it)
	}

	return out, nil
}

// aggregateQuantities суммирует количество по повторяющимся товарам
// и возвращает id по возрастанию, в порядке взятия блокировок.
func aggregateQuantities(items []OrderItemReq) (map[int64]int, []int64) {
	qty := make(map[int64]int, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := qty[it.ProductID]; !ok {
			ids = append(ids, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	slices.Sort(ids)

	return qty, ids
}

func requireFields(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return e.ErrMissingFields
		}
	}

	return nil
}
