package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/expressimports/backend/pkg/logger"
)

const defaultNotifyTimeout = 10 * time.Second

// postCommitHook запускает уведомление после коммита. Контекст запроса отвязывается
// от отмены и ограничивается собственным таймаутом. Ошибки и паники только логируются.
type postCommitHook struct {
	sink    NotificationSink
	timeout time.Duration
	logger  logger.Logger
}

func newPostCommitHook(sink NotificationSink, timeout time.Duration, logger logger.Logger) *postCommitHook {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}

	return &postCommitHook{sink: sink, timeout: timeout, logger: logger}
}

func (h *postCommitHook) fire(ctx context.Context, name string, fn func(ctx context.Context, sink NotificationSink) error) {
	if h == nil || h.sink == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorf(fmt.Errorf("panic: %v", r), "notification %s panicked", name)
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	if err := fn(ctx, h.sink); err != nil {
		h.logger.Errorf(err, "notification %s failed", name)
		return
	}

	h.logger.Debugf("notification %s delivered", name)
}
