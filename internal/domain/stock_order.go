package domain

import "time"

// OrderStatus - этап исполнения заказа со склада.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}

	return false
}

// StockOrder - прямая покупка товаров, которые есть на складе.
// Total фиксируется при создании и больше не меняется.
type StockOrder struct {
	ID              int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Total           int64
	Status          OrderStatus
	TrackingNumber  *string
	Items           []StockOrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StockOrderItem хранит цену товара на момент покупки.
type StockOrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   *int64
	ProductName string
	Quantity    int
	Price       int64
}

// Subtotal - стоимость позиции в центах.
func (i StockOrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// CalcTotal суммирует позиции и записывает результат в Total.
func (o *StockOrder) CalcTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.Total = total

	return total
}
