package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
)

// MockProductRepo - каталог в памяти.
type MockProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64

	// For tracking calls in tests
	LockCalls      []LockCall
	DecrementCalls []DecrementCall
	CreateCalls    []domain.Product
	UpdateCalls    []domain.Product
	ListCalls      []usecase.ProductListFilter

	GetErr       error
	DecrementErr error
	SetImageErr  error
}

// LockCall records parameters passed to LockForUpdate
type LockCall struct {
	IDs  []int64
	InTx bool
}

// DecrementCall records parameters passed to DecrementStock
type DecrementCall struct {
	ID       int64
	Quantity int
	InTx     bool
}

func NewMockProductRepo(seed ...domain.Product) *MockProductRepo {
	m := &MockProductRepo{products: make(map[int64]domain.Product)}
	for _, p := range seed {
		m.products[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

// Product возвращает текущее состояние товара.
func (m *MockProductRepo) Product(id int64) (domain.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p, ok
}

func (m *MockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.pick(ids), nil
}

func (m *MockProductRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	_, inTx := txFromCtx(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockCalls = append(m.LockCalls, LockCall{IDs: append([]int64(nil), ids...), InTx: inTx})
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.pick(ids), nil
}

func (m *MockProductRepo) List(_ context.Context, filter usecase.ProductListFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls = append(m.ListCalls, filter)

	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStockOnly && !p.InStock {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description+" "+p.Category), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	return out, nil
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	p := *product
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	m.CreateCalls = append(m.CreateCalls, p)

	track(ctx, func() { m.remove(p.ID) })
	return p.ID, nil
}

func (m *MockProductRepo) Update(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.products[product.ID]
	if !ok {
		return e.ErrProductNotFound
	}

	p := *product
	p.ImageKey = old.ImageKey
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now()
	m.products[p.ID] = p
	m.UpdateCalls = append(m.UpdateCalls, p)
	return nil
}

func (m *MockProductRepo) Delete(_ context.Context, id int64) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	delete(m.products, id)
	return p.ImageKey, nil
}

func (m *MockProductRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	_, inTx := txFromCtx(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.DecrementCalls = append(m.DecrementCalls, DecrementCall{ID: id, Quantity: quantity, InTx: inTx})
	if m.DecrementErr != nil {
		return m.DecrementErr
	}

	p, ok := m.products[id]
	if !ok || p.StockQuantity < quantity {
		return e.ErrInsufficientStock
	}

	before := p
	p.StockQuantity -= quantity
	p.RecalcAvailability()
	m.products[id] = p

	track(ctx, func() { m.restore(before) })
	return nil
}

func (m *MockProductRepo) SetImageKey(_ context.Context, id int64, key string) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetImageErr != nil {
		return nil, m.SetImageErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	prev := p.ImageKey
	p.ImageKey = &key
	m.products[id] = p
	return prev, nil
}

func (m *MockProductRepo) pick(ids []int64) map[int64]domain.Product {
	out := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out
}

func (m *MockProductRepo) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
}

func (m *MockProductRepo) restore(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}
