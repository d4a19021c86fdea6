// Package money хранит денежные суммы в центах (int64) и переводит их в десятичное представление и обратно.
package money

import (
	"strings"

	"github.com/expressimports/backend/pkg/e"
	"github.com/shopspring/decimal"
)

// maxCents - верхняя граница цены (1 млрд в валюте магазина).
var maxCents = decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))

// ParseCents переводит строку вида "599.99" или "600" в центы.
// Ошибка возвращается при неверном формате, отрицательном значении,
// более чем двух знаках после запятой и превышении лимита.
func ParseCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrMissingFields
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	return FromDecimal(d)
}

// FromDecimal проверяет и переводит десятичную сумму в центы.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, e.ErrInvalidPrice
	}

	return cents.IntPart(), nil
}

// ToDecimal переводит центы в десятичную сумму с двумя знаками.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format форматирует центы как "1234.50".
func Format(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}

// MarkUp умножает сумму на коэффициент и округляет до цента.
func MarkUp(cents int64, factor string) int64 {
	return decimal.NewFromInt(cents).Mul(decimal.RequireFromString(factor)).Round(0).IntPart()
}
