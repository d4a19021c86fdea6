package domain

import "time"

// DefaultImageEmoji - иконка товара, если администратор её не указал.
const DefaultImageEmoji = "📦"

// OriginalPriceMarkUp - множитель для original_price по умолчанию.
const OriginalPriceMarkUp = "1.3"

// Product описывает товар каталога. Все суммы хранятся в центах.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         int64
	OriginalPrice int64
	Category      string
	ImageEmoji    string
	StockQuantity int
	InStock       bool
	IsOffer       bool
	IsNew         bool
	IsPremium     bool
	ShippingInfo  *string
	ImageKey      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecalcAvailability пересчитывает InStock по остатку.
func (p *Product) RecalcAvailability() {
	p.InStock = p.StockQuantity > 0
}

// CanFulfil сообщает, хватает ли остатка на quantity единиц.
func (p *Product) CanFulfil(quantity int) bool {
	return p.InStock && p.StockQuantity >= quantity
}
