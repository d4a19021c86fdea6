package kafka

import (
	"context"
	"errors"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// MessageHandler обрабатывает одно сообщение. Ошибка логируется, сообщение не перечитывается.
type MessageHandler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	reader *kafka.Reader
	logger logger.Logger
}

func NewConsumer(logger logger.Logger, cfg *cfg.KafkaCfg) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{reader: reader, logger: logger}
}

// Consume читает топик до отмены ctx.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if err := handler(ctx, m.Key, m.Value); err != nil {
			c.logger.Errorf(err, "failed to handle message: partition=%d offset=%d key=%s", m.Partition, m.Offset, string(m.Key))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// NewSinkHandler разбирает события и передаёт их в sink (обычно email).
// Неизвестные типы событий пропускаются.
func NewSinkHandler(sink usecase.NotificationSink, logger logger.Logger) MessageHandler {
	return func(ctx context.Context, _, value []byte) error {
		const op = "kafka.SinkHandler"

		ev, err := DecodeEvent(value)
		if err != nil {
			return e.Wrap(op, err)
		}

		switch ev.Type {
		case EventQuoteCreated:
			n, err := ev.QuoteNotification()
			if err != nil {
				return e.Wrap(op, err)
			}
			return sink.QuoteCreated(ctx, n)
		case EventStockOrderPlaced:
			n, err := ev.StockOrderNotification()
			if err != nil {
				return e.Wrap(op, err)
			}
			return sink.StockOrderPlaced(ctx, n)
		default:
			logger.Warnf("unknown event type %q, event_id=%s", ev.Type, ev.EventID)
			return nil
		}
	}
}
