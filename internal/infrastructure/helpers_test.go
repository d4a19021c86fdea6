package infrastructure

import (
	"testing"

	"github.com/expressimports/backend/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestGetExtensionFromMIME(t *testing.T) {
	for contentType, want := range map[string]string{
		"image/jpeg":             "jpg",
		"image/jpg":              "jpg",
		"image/png":              "png",
		"image/webp":             "webp",
		"IMAGE/PNG":              "png",
		"image/jpeg; quality=90": "jpg",
		" image/webp ":           "webp",
	} {
		ext, err := GetExtensionFromMIME(contentType)
		assert.NoError(t, err, contentType)
		assert.Equal(t, want, ext, contentType)
	}
}

func TestGetExtensionFromMIME_Unsupported(t *testing.T) {
	for _, contentType := range []string{"image/gif", "application/pdf", "", ";;"} {
		ext, err := GetExtensionFromMIME(contentType)
		assert.ErrorIs(t, err, e.ErrUnsupportedMediaType, contentType)
		assert.Empty(t, ext, contentType)
	}
}
