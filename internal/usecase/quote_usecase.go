package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// QuoteUseCase реализует запросы на расчёт стоимости импортных товаров.
type QuoteUseCase struct {
	productRepo ProductRepository
	quoteRepo   QuoteRepository
	dbPool      transaction.Transactional
	notify      *postCommitHook
	logger      logger.Logger
}

func NewQuoteUC(
	productRepo ProductRepository,
	quoteRepo QuoteRepository,
	dbPool transaction.Transactional,
	sink NotificationSink,
	notifyTimeout time.Duration,
	logger logger.Logger,
) *QuoteUseCase {
	return &QuoteUseCase{
		productRepo: productRepo,
		quoteRepo:   quoteRepo,
		dbPool:      dbPool,
		notify:      newPostCommitHook(sink, notifyTimeout, logger),
		logger:      logger,
	}
}

func (q *QuoteUseCase) ListQuotes(ctx context.Context) ([]QuoteSummary, error) {
	const op = "QuoteUseCase.ListQuotes"

	quotes, err := q.quoteRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return quotes, nil
}

// CreateQuote сохраняет запрос и его позиции в одной транзакции и уведомляет администратора.
// Наличие на складе не проверяется, цены не фиксируются.
func (q *QuoteUseCase) CreateQuote(ctx context.Context, req *CreateQuoteReq) (int64, error) {
	const op = "QuoteUseCase.CreateQuote"

	if req == nil {
		return 0, e.Wrap(op, e.ErrMissingFields)
	}
	if err := requireFields(req.CustomerName, req.CustomerEmail); err != nil {
		return 0, e.Wrap(op, err)
	}

	items, err := normalizeItems(req.Items)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	quote := domain.NewQuote(
		strings.TrimSpace(req.CustomerName),
		strings.TrimSpace(req.CustomerEmail),
		strings.TrimSpace(req.Message),
		nil,
	)

	var quoteID int64
	err = inTx(ctx, q.dbPool, pgx.TxOptions{}, func(ctx context.Context) error {
		_, ids := aggregateQuantities(items)
		products, err := q.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		quote.Items = make([]domain.QuoteItem, 0, len(items))
		for _, it := range items {
			product, ok := products[it.ProductID]
			if !ok {
				return e.NewStockError(it.ProductID, "", e.ErrProductNotFound)
			}

			productID := it.ProductID
			quote.Items = append(quote.Items, domain.QuoteItem{
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    it.Quantity,
			})
		}

		quoteID, err = q.quoteRepo.Create(ctx, quote)
		return err
	})
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	q.logger.Infof("quote created: id=%d items=%d", quoteID, len(quote.Items))

	q.notify.fire(ctx, "quote_created", func(ctx context.Context, sink NotificationSink) error {
		return sink.QuoteCreated(ctx, newQuoteNotification(quoteID, quote))
	})

	return quoteID, nil
}

// UpdateQuoteStatus переводит запрос в любой из допустимых статусов.
func (q *QuoteUseCase) UpdateQuoteStatus(ctx context.Context, id int64, status string) error {
	const op = "QuoteUseCase.UpdateQuoteStatus"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	s := domain.QuoteStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return e.Wrap(op, e.ErrInvalidStatus)
	}

	if err := q.quoteRepo.UpdateStatus(ctx, id, s); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
