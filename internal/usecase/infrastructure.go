package usecase

import (
	"context"

	"github.com/expressimports/backend/internal/domain"
)

type ImagesInfra interface {
	UploadProductImage(ctx context.Context, productID int64, image ProductImage) (string, error)
	GetImage(ctx context.Context, key string) (*domain.ImageObject, error)
	CleanupImages(keys []string)
}

// NotificationSink доставляет уведомления после коммита.
// Ошибки sink не влияют на уже сохранённые данные.
type NotificationSink interface {
	QuoteCreated(ctx context.Context, n QuoteNotification) error
	StockOrderPlaced(ctx context.Context, n StockOrderNotification) error
}
