package usecase

import (
	"context"

	"github.com/expressimports/backend/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, req *ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, image ProductImage) (string, error)
	GetImage(ctx context.Context, id int64) (*domain.ImageObject, error)
}

type QuoteUC interface {
	ListQuotes(ctx context.Context) ([]QuoteSummary, error)
	CreateQuote(ctx context.Context, req *CreateQuoteReq) (int64, error)
	UpdateQuoteStatus(ctx context.Context, id int64, status string) error
}

type StockOrderUC interface {
	ListStockOrders(ctx context.Context) ([]StockOrderSummary, error)
	PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*PlaceOrderRes, error)
	UpdateOrderStatus(ctx context.Context, id int64, req *UpdateOrderStatusReq) error
}
