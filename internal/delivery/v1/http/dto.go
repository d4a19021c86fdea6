package http

import (
	"strconv"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/money"
)

// Тексты успешных ответов витрина показывает пользователю как есть.
const (
	msgProductCreated = "Producto creado exitosamente"
	msgProductUpdated = "Producto actualizado exitosamente"
	msgProductDeleted = "Producto eliminado exitosamente"
	msgImageUploaded  = "Imagen subida exitosamente"
	msgQuoteCreated   = "Cotización creada exitosamente"
	msgOrderCreated   = "Orden creada exitosamente"
	msgStatusUpdated  = "Estado actualizado exitosamente"
)

// REQUESTS

type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         Amount  `json:"price"`
	OriginalPrice Amount  `json:"original_price"`
	Category      string  `json:"category"`
	ImageEmoji    string  `json:"image_emoji"`
	StockQuantity int     `json:"stock_quantity"`
	IsOffer       bool    `json:"is_offer"`
	IsNew         bool    `json:"is_new"`
	IsPremium     bool    `json:"is_premium"`
	ShippingInfo  *string `json:"shipping_info"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateQuoteRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Message       string             `json:"message"`
	Items         []OrderItemRequest `json:"items"`
}

type PlaceOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []OrderItemRequest `json:"items"`
}

type UpdateStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

// RESPONSES

type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"original_price"`
	Category      string    `json:"category"`
	ImageEmoji    string    `json:"image_emoji"`
	ImageURL      *string   `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	IsOffer       bool      `json:"is_offer"`
	IsNew         bool      `json:"is_new"`
	IsPremium     bool      `json:"is_premium"`
	ShippingInfo  *string   `json:"shipping_info"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type OrderCreatedResponse struct {
	ID      int64  `json:"id"`
	Total   string `json:"total"`
	Message string `json:"message"`
}

type ImageUploadedResponse struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type QuoteResponse struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	Items         string    `json:"items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type StockOrderResponse struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	ShippingAddress string    `json:"shipping_address"`
	Total           string    `json:"total"`
	Status          string    `json:"status"`
	TrackingNumber  *string   `json:"tracking_number"`
	Items           string    `json:"items"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HealthResponse struct {
	Message   string    `json:"message"`
	Server    string    `json:"server"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// MAPPERS

func (r *ProductRequest) toInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         string(r.Price),
		OriginalPrice: string(r.OriginalPrice),
		Category:      r.Category,
		ImageEmoji:    r.ImageEmoji,
		StockQuantity: r.StockQuantity,
		IsOffer:       r.IsOffer,
		IsNew:         r.IsNew,
		IsPremium:     r.IsPremium,
		ShippingInfo:  r.ShippingInfo,
	}
}

func toOrderItems(items []OrderItemRequest) []usecase.OrderItemReq {
	res := make([]usecase.OrderItemReq, 0, len(items))
	for _, it := range items {
		res = append(res, usecase.OrderItemReq{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return res
}

func (r *CreateQuoteRequest) toReq() *usecase.CreateQuoteReq {
	return &usecase.CreateQuoteReq{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Message:       r.Message,
		Items:         toOrderItems(r.Items),
	}
}

func (r *PlaceOrderRequest) toReq() *usecase.PlaceOrderReq {
	return &usecase.PlaceOrderReq{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		ShippingAddress: r.ShippingAddress,
		Items:           toOrderItems(r.Items),
	}
}

func productImageURL(p *domain.Product) *string {
	if p.ImageKey == nil {
		return nil
	}
	url := "/api/products/" + strconv.FormatInt(p.ID, 10) + "/image"
	return &url
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         money.Format(p.Price),
		OriginalPrice: money.Format(p.OriginalPrice),
		Category:      p.Category,
		ImageEmoji:    p.ImageEmoji,
		ImageURL:      productImageURL(p),
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock,
		IsOffer:       p.IsOffer,
		IsNew:         p.IsNew,
		IsPremium:     p.IsPremium,
		ShippingInfo:  p.ShippingInfo,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

func toQuoteResponses(quotes []usecase.QuoteSummary) []QuoteResponse {
	res := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		res = append(res, QuoteResponse{
			ID:            q.ID,
			CustomerName:  q.CustomerName,
			CustomerEmail: q.CustomerEmail,
			Message:       q.Message,
			Status:        string(q.Status),
			Items:         q.ItemsSummary,
			CreatedAt:     q.CreatedAt,
			UpdatedAt:     q.UpdatedAt,
		})
	}
	return res
}

func toStockOrderResponses(orders []usecase.StockOrderSummary) []StockOrderResponse {
	res := make([]StockOrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, StockOrderResponse{
			ID:              o.ID,
			CustomerName:    o.CustomerName,
			CustomerEmail:   o.CustomerEmail,
			ShippingAddress: o.ShippingAddress,
			Total:           money.Format(o.Total),
			Status:          string(o.Status),
			TrackingNumber:  o.TrackingNumber,
			Items:           o.ItemsSummary,
			CreatedAt:       o.CreatedAt,
			UpdatedAt:       o.UpdatedAt,
		})
	}
	return res
}
