package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher публикует уведомления в топик. Письма отправляет отдельный процесс-нотификатор.
type EventPublisher struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
	now    func() time.Time
}

func NewEventPublisher(logger logger.Logger, cfg *cfg.KafkaCfg) *EventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}

	return newEventPublisher(writer, logger, cfg)
}

func newEventPublisher(w messageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *EventPublisher {
	return &EventPublisher{
		writer: w,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (p *EventPublisher) QuoteCreated(ctx context.Context, n usecase.QuoteNotification) error {
	value, err := EncodeQuoteCreated(n, p.now())
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return p.write(ctx, "quote-"+strconv.FormatInt(n.QuoteID, 10), value)
}

func (p *EventPublisher) StockOrderPlaced(ctx context.Context, n usecase.StockOrderNotification) error {
	value, err := EncodeStockOrderPlaced(n, p.now())
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return p.write(ctx, "order-"+strconv.FormatInt(n.OrderID, 10), value)
}

func (p *EventPublisher) write(ctx context.Context, key string, value []byte) error {
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	p.logger.Debugf("event published: key=%s", key)
	return nil
}

// EnsureTopic создаёт топик, если его ещё нет.
func (p *EventPublisher) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
