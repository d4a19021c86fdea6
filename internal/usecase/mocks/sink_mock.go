package mocks

import (
	"context"
	"sync"

	"github.com/expressimports/backend/internal/usecase"
)

// MockSink records notifications.
type MockSink struct {
	mu sync.Mutex

	Err   error
	Panic bool
	// OnCall вызывается в начале каждого уведомления.
	OnCall func(ctx context.Context)

	Quotes []usecase.QuoteNotification
	Orders []usecase.StockOrderNotification
	Ctxs   []context.Context
}

func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) QuoteCreated(ctx context.Context, n usecase.QuoteNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Ctxs = append(m.Ctxs, ctx)
	if m.OnCall != nil {
		m.OnCall(ctx)
	}
	if m.Panic {
		panic("smtp exploded")
	}
	m.Quotes = append(m.Quotes, n)
	return m.Err
}

func (m *MockSink) StockOrderPlaced(ctx context.Context, n usecase.StockOrderNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Ctxs = append(m.Ctxs, ctx)
	if m.OnCall != nil {
		m.OnCall(ctx)
	}
	if m.Panic {
		panic("smtp exploded")
	}
	m.Orders = append(m.Orders, n)
	return m.Err
}
