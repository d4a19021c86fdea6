package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/infrastructure"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/jitter"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/google/uuid"
)

// cleanupTimeout ограничивает одну фоновую очистку.
const cleanupTimeout = 30 * time.Second

// MinioInfrastructure управляет загрузкой и очисткой изображений товаров в MinIO.
type MinioInfrastructure struct {
	imageRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoff     jitter.Backoff
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		imageRepo:   imageRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoff: jitter.Backoff{
			Base:     time.Second,
			Max:      8 * time.Second,
			Attempts: 3,
			Factor:   jitter.DefaultJitter,
		},
	}
}

// UploadProductImage проверяет тип и размер и сохраняет изображение
// под ключом products/{id}/{uuid}.{ext}.
func (m *MinioInfrastructure) UploadProductImage(ctx context.Context, productID int64, image usecase.ProductImage) (string, error) {
	const op = "MinioInfrastructure.UploadProductImage"

	if m.cfg.MaxImageSize > 0 && int64(len(image.Data)) > m.cfg.MaxImageSize {
		return "", e.Wrap(op, e.ErrFileTooLarge)
	}

	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err))
	}

	key := ProductImageKey(productID, uuid.NewString(), ext)
	stored, err := m.imageRepo.Upload(ctx, domain.NewImage(m.cfg.BucketName, key, image.Data, image.MimeType))
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("upload %s failed: %w", image.Name, err))
	}

	return stored, nil
}

// GetImage открывает изображение на чтение.
func (m *MinioInfrastructure) GetImage(ctx context.Context, key string) (*domain.ImageObject, error) {
	obj, err := m.imageRepo.Get(ctx, key)
	if err != nil {
		return nil, e.Wrap("MinioInfrastructure.GetImage", err)
	}

	return obj, nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupKeys(keys)
}

// cleanupKeys удаляет объекты с экспоненциальной задержкой и jitter между попытками.
func (m *MinioInfrastructure) cleanupKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupKeys"

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		var err error
		for attempt := 0; attempt < m.backoff.Attempts; attempt++ {
			if err = m.imageRepo.Delete(ctx, key); err == nil {
				break
			}

			if attempt == m.backoff.Attempts-1 {
				break
			}

			select {
			case <-time.After(m.backoff.Delay(attempt)):
			case <-ctx.Done():
				m.logger.Warnf("%s: cleanup interrupted by shutdown, key=%s", op, key)
				return
			}
		}

		if err != nil {
			m.logger.Errorf(err, "%s: failed to delete %s", op, key)
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

// ProductImageKey формирует ключ объекта изображения товара.
func ProductImageKey(productID int64, id, ext string) string {
	return fmt.Sprintf("products/%d/%s.%s", productID, id, ext)
}
