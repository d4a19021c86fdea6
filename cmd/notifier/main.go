// Команда notifier читает события из Kafka и рассылает письма.
// Нужна, когда API запущен с NOTIFY_SINK=kafka.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	config "github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/infrastructure/email"
	"github.com/expressimports/backend/internal/infrastructure/kafka"
	"github.com/expressimports/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.LoadNotifier(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := email.NewNotifier(email.NewSMTPSender(cfg.Smtp), cfg.Notify.AdminEmail, log)
	consumer := kafka.NewConsumer(log, cfg.Kafka)
	handler := kafka.NewSinkHandler(notifier, log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("notifier consuming topic %s as group %s", cfg.Kafka.Topic, cfg.Kafka.GroupID)
		return consumer.Consume(gCtx, func(ctx context.Context, key, value []byte) error {
			sendCtx, cancel := context.WithTimeout(ctx, cfg.Notify.Timeout)
			defer cancel()
			return handler(sendCtx, key, value)
		})
	})
	g.Go(func() error {
		<-gCtx.Done()
		return consumer.Close()
	})

	if err := g.Wait(); err != nil {
		log.Errorf(err, "notifier stopped with error")
		os.Exit(1)
	}

	log.Infof("notifier stopped")
}
