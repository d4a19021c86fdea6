package email

import (
	"context"
	"fmt"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
)

// Notifier доставляет уведомления письмами.
// Запросы уходят администратору, подтверждения заказов - клиенту.
type Notifier struct {
	sender     Sender
	adminEmail string
	logger     logger.Logger
}

func NewNotifier(sender Sender, adminEmail string, logger logger.Logger) *Notifier {
	return &Notifier{sender: sender, adminEmail: adminEmail, logger: logger}
}

func (n *Notifier) QuoteCreated(ctx context.Context, q usecase.QuoteNotification) error {
	const op = "Notifier.QuoteCreated"

	if n.adminEmail == "" {
		return e.Wrap(op, fmt.Errorf("admin email is not configured"))
	}

	body, err := RenderQuote(q)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := n.sender.Send(ctx, n.adminEmail, QuoteSubject, body); err != nil {
		return e.Wrap(op, err)
	}

	n.logger.Infof("quote email sent: quote_id=%d", q.QuoteID)
	return nil
}

func (n *Notifier) StockOrderPlaced(ctx context.Context, o usecase.StockOrderNotification) error {
	const op = "Notifier.StockOrderPlaced"

	body, err := RenderOrder(o)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := n.sender.Send(ctx, o.CustomerEmail, OrderSubject, body); err != nil {
		return e.Wrap(op, err)
	}

	n.logger.Infof("order confirmation sent: order_id=%d", o.OrderID)
	return nil
}
