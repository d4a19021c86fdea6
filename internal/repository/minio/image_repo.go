package minio

import (
	"bytes"
	"context"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo реализует репозиторий изображений поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в MinIO и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Data)

	info, err := i.mc.PutObject(ctx, i.bucket(image), image.ObjectKey, reader, image.Size, minio.PutObjectOptions{
		ContentType: image.MimeType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Get открывает объект на чтение. Отсутствующий объект - e.ErrImageNotFound.
func (i *ImageRepo) Get(ctx context.Context, key string) (*domain.ImageObject, error) {
	obj, err := i.mc.GetObject(ctx, i.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// GetObject ленивый: ошибка отсутствия объекта появляется только при Stat/Read
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, e.ErrImageNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.ImageObject{
		Body:        obj,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (i *ImageRepo) bucket(image *domain.Image) string {
	if image.Bucket != "" {
		return image.Bucket
	}
	return i.cfg.BucketName
}
