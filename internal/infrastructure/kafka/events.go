package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/google/uuid"
)

type EventType string

const (
	EventQuoteCreated     EventType = "quote_created"
	EventStockOrderPlaced EventType = "stock_order_placed"
)

// Event - конверт сообщения в топике уведомлений.
type Event struct {
	EventID    string          `json:"event_id"`
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type itemPayload struct {
	ProductID   int64  `json:"product_id,omitempty"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price_cents,omitempty"`
}

type quotePayload struct {
	QuoteID       int64         `json:"quote_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Message       string        `json:"message,omitempty"`
	Items         []itemPayload `json:"items"`
}

type stockOrderPayload struct {
	OrderID         int64         `json:"order_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	ShippingAddress string        `json:"shipping_address"`
	Total           int64         `json:"total_cents"`
	Items           []itemPayload `json:"items"`
}

func newEvent(t EventType, payload any, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		EventID:    uuid.NewString(),
		Type:       t,
		OccurredAt: now.UTC(),
		Payload:    raw,
	})
}

// EncodeQuoteCreated сериализует уведомление о запросе в конверт события.
func EncodeQuoteCreated(n usecase.QuoteNotification, now time.Time) ([]byte, error) {
	return newEvent(EventQuoteCreated, quotePayload{
		QuoteID:       n.QuoteID,
		CustomerName:  n.CustomerName,
		CustomerEmail: n.CustomerEmail,
		Message:       n.Message,
		Items:         toItemPayloads(n.Items),
	}, now)
}

func EncodeStockOrderPlaced(n usecase.StockOrderNotification, now time.Time) ([]byte, error) {
	return newEvent(EventStockOrderPlaced, stockOrderPayload{
		OrderID:         n.OrderID,
		CustomerName:    n.CustomerName,
		CustomerEmail:   n.CustomerEmail,
		ShippingAddress: n.ShippingAddress,
		Total:           n.Total,
		Items:           toItemPayloads(n.Items),
	}, now)
}

// DecodeEvent разбирает конверт. Payload остаётся сырым до выбора обработчика.
func DecodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("event %q has no type", ev.EventID)
	}

	return &ev, nil
}

func (ev *Event) QuoteNotification() (usecase.QuoteNotification, error) {
	var p quotePayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return usecase.QuoteNotification{}, err
	}

	return usecase.QuoteNotification{
		QuoteID:       p.QuoteID,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		Message:       p.Message,
		Items:         fromItemPayloads(p.Items),
	}, nil
}

func (ev *Event) StockOrderNotification() (usecase.StockOrderNotification, error) {
	var p stockOrderPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return usecase.StockOrderNotification{}, err
	}

	return usecase.StockOrderNotification{
		OrderID:         p.OrderID,
		CustomerName:    p.CustomerName,
		CustomerEmail:   p.CustomerEmail,
		ShippingAddress: p.ShippingAddress,
		Total:           p.Total,
		Items:           fromItemPayloads(p.Items),
	}, nil
}

func toItemPayloads(items []usecase.NotificationItem) []itemPayload {
	res := make([]itemPayload, 0, len(items))
	for _, it := range items {
		res = append(res, itemPayload(it))
	}
	return res
}

func fromItemPayloads(items []itemPayload) []usecase.NotificationItem {
	res := make([]usecase.NotificationItem, 0, len(items))
	for _, it := range items {
		res = append(res, usecase.NotificationItem(it))
	}
	return res
}
