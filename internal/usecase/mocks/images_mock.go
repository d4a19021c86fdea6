package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
)

// MockImages - хранилище изображений в памяти.
type MockImages struct {
	mu      sync.Mutex
	objects map[string]usecase.ProductImage
	seq     int

	UploadErr    error
	CleanupCalls [][]string
}

func NewMockImages() *MockImages {
	return &MockImages{objects: make(map[string]usecase.ProductImage)}
}

func (m *MockImages) UploadProductImage(_ context.Context, productID int64, image usecase.ProductImage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.seq++
	key := fmt.Sprintf("products/%d/%d.png", productID, m.seq)
	m.objects[key] = image
	return key, nil
}

func (m *MockImages) GetImage(_ context.Context, key string) (*domain.ImageObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, ok := m.objects[key]
	if !ok {
		return nil, e.ErrImageNotFound
	}
	return &domain.ImageObject{
		Body:        io.NopCloser(bytes.NewReader(img.Data)),
		Size:        int64(len(img.Data)),
		ContentType: img.MimeType,
	}, nil
}

func (m *MockImages) CleanupImages(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CleanupCalls = append(m.CleanupCalls, keys)
	for _, k := range keys {
		delete(m.objects, k)
	}
}
