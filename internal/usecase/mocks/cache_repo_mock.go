package mocks

import (
	"context"
	"sync"

	"github.com/expressimports/backend/internal/domain"
)

// MockCacheRepo - кэш товаров в памяти.
type MockCacheRepo struct {
	mu   sync.Mutex
	data map[int64]domain.Product

	GetErr      error
	GetCalls    []int64
	SetCalls    [][]domain.Product
	DeleteCalls [][]int64
}

func NewMockCacheRepo() *MockCacheRepo {
	return &MockCacheRepo{data: make(map[int64]domain.Product)}
}

func (m *MockCacheRepo) Put(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.ID] = p
}

func (m *MockCacheRepo) Has(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

func (m *MockCacheRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, id)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, products)
	for _, p := range products {
		m.data[p.ID] = p
	}
	return nil
}

func (m *MockCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, append([]int64(nil), ids...))
	for _, id := range ids {
		delete(m.data, id)
	}
	return nil
}

// Deleted возвращает все id, удалённые из кэша.
func (m *MockCacheRepo) Deleted() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []int64
	for _, call := range m.DeleteCalls {
		out = append(out, call...)
	}
	return out
}
