package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Price         int64     `db:"price"`
	OriginalPrice int64     `db:"original_price"`
	Category      string    `db:"category"`
	ImageEmoji    string    `db:"image_emoji"`
	StockQuantity int       `db:"stock_quantity"`
	InStock       bool      `db:"in_stock"`
	IsOffer       bool      `db:"is_offer"`
	IsNew         bool      `db:"is_new"`
	IsPremium     bool      `db:"is_premium"`
	ShippingInfo  *string   `db:"shipping_info"`
	ImageKey      *string   `db:"image_key"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// QuoteModel - строка списка запросов вместе со сводкой позиций.
type QuoteModel struct {
	ID            int64     `db:"id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	Message       string    `db:"message"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Items         string    `db:"items"`
}

// StockOrderModel - строка списка заказов вместе со сводкой позиций.
type StockOrderModel struct {
	ID              int64     `db:"id"`
	CustomerName    string    `db:"customer_name"`
	CustomerEmail   string    `db:"customer_email"`
	ShippingAddress string    `db:"shipping_address"`
	Total           int64     `db:"total"`
	Status          string    `db:"status"`
	TrackingNumber  *string   `db:"tracking_number"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Items           string    `db:"items"`
}
