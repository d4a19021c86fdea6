package infrastructure

import (
	"mime"

	"github.com/expressimports/backend/pkg/e"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// GetExtensionFromMIME возвращает расширение ключа объекта для фото товара.
// Параметры типа и регистр игнорируются: "Image/PNG; charset=x" даёт "png".
func GetExtensionFromMIME(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", e.Wrap(contentType, e.ErrUnsupportedMediaType)
	}

	ext, ok := imageExtensions[mediaType]
	if !ok {
		return "", e.Wrap(mediaType, e.ErrUnsupportedMediaType)
	}

	return ext, nil
}
