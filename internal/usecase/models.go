package usecase

import "github.com/expressimports/backend/internal/domain"

// PRODUCT USECASE

// ProductListFilter - параметры выборки каталога. Пустые поля не фильтруют.
type ProductListFilter struct {
	Search      string
	Category    string
	InStockOnly bool
}

// ProductInput - данные для создания или полной замены товара.
// Цены приходят строками ("189.99") и переводятся в центы при валидации.
type ProductInput struct {
	Name          string
	Description   string
	Price         string
	OriginalPrice string
	Category      string
	ImageEmoji    string
	StockQuantity int
	IsOffer       bool
	IsNew         bool
	IsPremium     bool
	ShippingInfo  *string
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ORDER FLOWS

// OrderItemReq - позиция корзины. Quantity 0 означает 1.
type OrderItemReq struct {
	ProductID int64
	Quantity  int
}

type CreateQuoteReq struct {
	CustomerName  string
	CustomerEmail string
	Message       string
	Items         []OrderItemReq
}

type PlaceOrderReq struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Items           []OrderItemReq
}

type PlaceOrderRes struct {
	ID    int64
	Total int64
}

type UpdateOrderStatusReq struct {
	Status         string
	TrackingNumber *string
}

// QuoteSummary - запрос с текстовой сводкой позиций "Name (xN), ...".
type QuoteSummary struct {
	domain.Quote
	ItemsSummary string
}

type StockOrderSummary struct {
	domain.StockOrder
	ItemsSummary string
}

// NOTIFICATIONS

type NotificationItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       int64
}

type QuoteNotification struct {
	QuoteID       int64
	CustomerName  string
	CustomerEmail string
	Message       string
	Items         []NotificationItem
}

type StockOrderNotification struct {
	OrderID         int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Total           int64
	Items           []NotificationItem
}

// MAPPERS

func NewPlaceOrderRes(id, total int64) *PlaceOrderRes {
	return &PlaceOrderRes{ID: id, Total: total}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func newQuoteNotification(id int64, q *domain.Quote) QuoteNotification {
	items := make([]NotificationItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, NotificationItem{
			ProductID:   derefID(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}

	return QuoteNotification{
		QuoteID:       id,
		CustomerName:  q.CustomerName,
		CustomerEmail: q.CustomerEmail,
		Message:       q.Message,
		Items:         items,
	}
}

func newStockOrderNotification(id int64, o *domain.StockOrder) StockOrderNotification {
	items := make([]NotificationItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, NotificationItem{
			ProductID:   derefID(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	return StockOrderNotification{
		OrderID:         id,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		Items:           items,
	}
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}

	return *id
}
