package mocks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
)

// MockQuoteRepo хранит запросы в памяти.
type MockQuoteRepo struct {
	mu     sync.Mutex
	quotes []domain.Quote
	seq    int64

	CreateErr error
	InTx      []bool
}

func NewMockQuoteRepo() *MockQuoteRepo {
	return &MockQuoteRepo{}
}

func (m *MockQuoteRepo) Quotes() []domain.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Quote(nil), m.quotes...)
}

func (m *MockQuoteRepo) Create(ctx context.Context, quote *domain.Quote) (int64, error) {
	_, inTx := txFromCtx(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.InTx = append(m.InTx, inTx)
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}

	q := *quote
	m.seq++
	q.ID = m.seq
	q.Items = append([]domain.QuoteItem(nil), quote.Items...)
	for i := range q.Items {
		q.Items[i].QuoteID = q.ID
	}
	q.CreatedAt = time.Now()
	m.quotes = append(m.quotes, q)

	track(ctx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.quotes = slices.DeleteFunc(m.quotes, func(x domain.Quote) bool { return x.ID == q.ID })
	})
	return q.ID, nil
}

func (m *MockQuoteRepo) List(context.Context) ([]usecase.QuoteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]usecase.QuoteSummary, 0, len(m.quotes))
	for i := len(m.quotes) - 1; i >= 0; i-- {
		q := m.quotes[i]
		parts := make([]string, 0, len(q.Items))
		for _, it := range q.Items {
			parts = append(parts, fmt.Sprintf("%s (x%d)", it.ProductName, it.Quantity))
		}
		out = append(out, usecase.QuoteSummary{Quote: q, ItemsSummary: strings.Join(parts, ", ")})
	}
	return out, nil
}

func (m *MockQuoteRepo) UpdateStatus(_ context.Context, id int64, status domain.QuoteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.quotes {
		if m.quotes[i].ID == id {
			m.quotes[i].Status = status
			return nil
		}
	}
	return e.ErrQuoteNotFound
}

// MockStockOrderRepo хранит заказы в памяти.
type MockStockOrderRepo struct {
	mu     sync.Mutex
	orders []domain.StockOrder
	seq    int64

	CreateErr error
	InTx      []bool
}

func NewMockStockOrderRepo() *MockStockOrderRepo {
	return &MockStockOrderRepo{}
}

func (m *MockStockOrderRepo) Orders() []domain.StockOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.StockOrder(nil), m.orders...)
}

func (m *MockStockOrderRepo) Create(ctx context.Context, order *domain.StockOrder) (int64, error) {
	_, inTx := txFromCtx(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.InTx = append(m.InTx, inTx)
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}

	o := *order
	m.seq++
	o.ID = m.seq
	o.Items = append([]domain.StockOrderItem(nil), order.Items...)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	o.CreatedAt = time.Now()
	m.orders = append(m.orders, o)

	track(ctx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.orders = slices.DeleteFunc(m.orders, func(x domain.StockOrder) bool { return x.ID == o.ID })
	})
	return o.ID, nil
}

func (m *MockStockOrderRepo) List(context.Context) ([]usecase.StockOrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]usecase.StockOrderSummary, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		parts := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			parts = append(parts, fmt.Sprintf("%s (x%d)", it.ProductName, it.Quantity))
		}
		out = append(out, usecase.StockOrderSummary{StockOrder: o, ItemsSummary: strings.Join(parts, ", ")})
	}
	return out, nil
}

func (m *MockStockOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus, tracking *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			if tracking != nil {
				m.orders[i].TrackingNumber = tracking
			}
			return nil
		}
	}
	return e.ErrStockOrderNotFound
}
