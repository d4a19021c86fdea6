package usecase

import (
	"context"

	"github.com/expressimports/backend/internal/domain"
)

// ProductRepository - хранилище каталога. Методы, вызванные с транзакцией в контексте, выполняются в ней.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	// LockForUpdate блокирует строки товаров до конца транзакции (SELECT ... FOR UPDATE).
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (int64, error)
	Update(ctx context.Context, product *domain.Product) error
	// Delete удаляет товар и возвращает ключ его изображения, если оно было.
	Delete(ctx context.Context, id int64) (*string, error)
	// DecrementStock списывает quantity единиц, только если остатка хватает.
	DecrementStock(ctx context.Context, id int64, quantity int) error
	// SetImageKey сохраняет новый ключ изображения и возвращает предыдущий.
	SetImageKey(ctx context.Context, id int64, key string) (*string, error)
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) (int64, error)
	List(ctx context.Context) ([]QuoteSummary, error)
	UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) error
}

type StockOrderRepository interface {
	Create(ctx context.Context, order *domain.StockOrder) (int64, error)
	List(ctx context.Context) ([]StockOrderSummary, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, trackingNumber *string) error
}

type CacheRepository interface {
	// GetProduct возвращает nil без ошибки при промахе.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Get(ctx context.Context, key string) (*domain.ImageObject, error)
	Delete(ctx context.Context, key string) error
}
