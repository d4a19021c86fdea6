package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	To, Subject, Body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return f.err
}

func TestRenderOrder(t *testing.T) {
	body, err := RenderOrder(usecase.StockOrderNotification{
		OrderID:         17,
		CustomerName:    "Ana <script>",
		ShippingAddress: "Calle 1, Miami",
		Total:           3000,
		Items:           []usecase.NotificationItem{{ProductName: "P", Quantity: 3, Price: 1000}},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Tu pedido #17")
	assert.Contains(t, body, "$30.00")
	assert.Contains(t, body, "Calle 1, Miami")
	assert.NotContains(t, body, "<script>")
}

func TestRenderQuote_NoMessage(t *testing.T) {
	body, err := RenderQuote(usecase.QuoteNotification{
		QuoteID:      3,
		CustomerName: "Luis",
		Items:        []usecase.NotificationItem{{ProductName: "MacBook", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Sin mensaje")
	assert.Contains(t, body, "MacBook (x2)")
	assert.Contains(t, body, "<strong>Productos solicitados:</strong> 1")
}

func TestNotifier_Recipients(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, "admin@expressimports.com", logger.Nop())

	require.NoError(t, n.QuoteCreated(context.Background(), usecase.QuoteNotification{QuoteID: 1, CustomerEmail: "c@x.com"}))
	require.NoError(t, n.StockOrderPlaced(context.Background(), usecase.StockOrderNotification{OrderID: 2, CustomerEmail: "c@x.com"}))

	require.Len(t, s.sent, 2)
	assert.Equal(t, "admin@expressimports.com", s.sent[0].To)
	assert.Equal(t, QuoteSubject, s.sent[0].Subject)
	assert.Equal(t, "c@x.com", s.sent[1].To)
	assert.Equal(t, OrderSubject, s.sent[1].Subject)
}

func TestNotifier_PropagatesSendError(t *testing.T) {
	n := NewNotifier(&fakeSender{err: errors.New("535 auth")}, "admin@x.com", logger.Nop())

	err := n.StockOrderPlaced(context.Background(), usecase.StockOrderNotification{CustomerEmail: "c@x.com"})
	assert.ErrorContains(t, err, "535 auth")

	err = NewNotifier(&fakeSender{}, "", logger.Nop()).QuoteCreated(context.Background(), usecase.QuoteNotification{})
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("shop@x.com", "c@x.com", OrderSubject, "<p>hola</p>", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.True(t, strings.HasPrefix(msg, "From: shop@x.com\r\nTo: c@x.com\r\n"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?Confirmaci=C3=B3n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>hola</p>")
}
