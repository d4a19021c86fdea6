package converter

import "time"

// ProductRedisModel - JSON-представление товара в кэше.
type ProductRedisModel struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"original_price"`
	Category      string    `json:"category"`
	ImageEmoji    string    `json:"image_emoji"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	IsOffer       bool      `json:"is_offer"`
	IsNew         bool      `json:"is_new"`
	IsPremium     bool      `json:"is_premium"`
	ShippingInfo  *string   `json:"shipping_info,omitempty"`
	ImageKey      *string   `json:"image_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
