package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type recordingSink struct {
	quotes []usecase.QuoteNotification
	orders []usecase.StockOrderNotification
}

func (s *recordingSink) QuoteCreated(_ context.Context, n usecase.QuoteNotification) error {
	s.quotes = append(s.quotes, n)
	return nil
}

func (s *recordingSink) StockOrderPlaced(_ context.Context, n usecase.StockOrderNotification) error {
	s.orders = append(s.orders, n)
	return nil
}

func TestPublisher_ToHandler(t *testing.T) {
	w := &fakeWriter{}
	p := newEventPublisher(w, logger.Nop(), &cfg.KafkaCfg{Topic: "t"})
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	order := usecase.StockOrderNotification{
		OrderID:         9,
		CustomerName:    "Ana",
		CustomerEmail:   "ana@x.com",
		ShippingAddress: "Calle 1",
		Total:           3000,
		Items:           []usecase.NotificationItem{{ProductID: 1, ProductName: "P", Quantity: 3, Price: 1000}},
	}
	quote := usecase.QuoteNotification{
		QuoteID:       4,
		CustomerName:  "Luis",
		CustomerEmail: "luis@x.com",
		Items:         []usecase.NotificationItem{{ProductID: 2, ProductName: "Q", Quantity: 1}},
	}

	require.NoError(t, p.StockOrderPlaced(context.Background(), order))
	require.NoError(t, p.QuoteCreated(context.Background(), quote))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "order-9", string(w.msgs[0].Key))
	assert.Equal(t, "quote-4", string(w.msgs[1].Key))

	sink := &recordingSink{}
	h := NewSinkHandler(sink, logger.Nop())
	for _, m := range w.msgs {
		require.NoError(t, h(context.Background(), m.Key, m.Value))
	}

	require.Len(t, sink.orders, 1)
	assert.Equal(t, order, sink.orders[0])
	require.Len(t, sink.quotes, 1)
	assert.Equal(t, quote, sink.quotes[0])
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event_id":"x","type":"quote_created","occurred_at":"2026-03-01T12:00:00Z","payload":{"quote_id":1}}`))
	require.NoError(t, err)
	assert.Equal(t, EventQuoteCreated, ev.Type)

	_, err = DecodeEvent([]byte(`{"event_id":"x"}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestSinkHandler_SkipsUnknownType(t *testing.T) {
	sink := &recordingSink{}
	h := NewSinkHandler(sink, logger.Nop())

	err := h(context.Background(), nil, []byte(`{"event_id":"x","type":"product_viewed","payload":{}}`))
	require.NoError(t, err)
	assert.Empty(t, sink.quotes)
	assert.Empty(t, sink.orders)
}

func TestPublisher_WriteError(t *testing.T) {
	p := newEventPublisher(&fakeWriter{err: errors.New("leader not available")}, logger.Nop(), &cfg.KafkaCfg{})

	err := p.QuoteCreated(context.Background(), usecase.QuoteNotification{QuoteID: 1})
	assert.ErrorContains(t, err, "leader not available")
}
