package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
)

// StockOrderUseCase реализует покупку товаров со склада со списанием остатков.
type StockOrderUseCase struct {
	productRepo ProductRepository
	orderRepo   StockOrderRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	notify      *postCommitHook
	logger      logger.Logger
}

func NewStockOrderUC(
	productRepo ProductRepository,
	orderRepo StockOrderRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	sink NotificationSink,
	notifyTimeout time.Duration,
	logger logger.Logger,
) *StockOrderUseCase {
	return &StockOrderUseCase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		notify:      newPostCommitHook(sink, notifyTimeout, logger),
		logger:      logger,
	}
}

func (s *StockOrderUseCase) ListStockOrders(ctx context.Context) ([]StockOrderSummary, error) {
	const op = "StockOrderUseCase.ListStockOrders"

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// PlaceOrder проверяет остатки под блокировкой строк, считает итог по текущим ценам,
// сохраняет заказ со снимком цен и списывает остатки. Всё в одной транзакции.
func (s *StockOrderUseCase) PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*PlaceOrderRes, error) {
	const op = "StockOrderUseCase.PlaceOrder"

	if req == nil {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}
	if err := requireFields(req.CustomerName, req.CustomerEmail, req.ShippingAddress); err != nil {
		return nil, e.Wrap(op, err)
	}

	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	quantities, ids := aggregateQuantities(items)

	order := &domain.StockOrder{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Status:          domain.OrderStatusPending,
	}

	var orderID int64
	err = inTx(ctx, s.dbPool, readCommitted, func(ctx context.Context) error {
		products, err := s.productRepo.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		// Проверка в порядке корзины, чтобы ошибка называла первый проблемный товар
		for _, it := range items {
			product, ok := products[it.ProductID]
			if !ok || !product.InStock {
				return e.NewStockError(it.ProductID, product.Name, e.ErrProductNotAvailable)
			}
			if !product.CanFulfil(quantities[it.ProductID]) {
				return e.NewStockError(it.ProductID, product.Name, e.ErrInsufficientStock)
			}
		}

		order.Items = make([]domain.StockOrderItem, 0, len(items))
		for _, it := range items {
			product := products[it.ProductID]
			productID := it.ProductID
			order.Items = append(order.Items, domain.StockOrderItem{
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    it.Quantity,
				Price:       product.Price,
			})
		}
		order.CalcTotal()

		orderID, err = s.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		for _, id := range ids {
			if err := s.productRepo.DecrementStock(ctx, id, quantities[id]); err != nil {
				if errors.Is(err, e.ErrInsufficientStock) {
					return e.NewStockError(id, products[id].Name, e.ErrInsufficientStock)
				}
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("stock order placed: id=%d total=%d items=%d", orderID, order.Total, len(order.Items))

	if err := s.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		s.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}

	s.notify.fire(ctx, "stock_order_placed", func(ctx context.Context, sink NotificationSink) error {
		return sink.StockOrderPlaced(ctx, newStockOrderNotification(orderID, order))
	})

	return NewPlaceOrderRes(orderID, order.Total), nil
}

// UpdateOrderStatus меняет статус заказа и, если передан, трек-номер.
func (s *StockOrderUseCase) UpdateOrderStatus(ctx context.Context, id int64, req *UpdateOrderStatusReq) error {
	const op = "StockOrderUseCase.UpdateOrderStatus"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}
	if req == nil {
		return e.Wrap(op, e.ErrMissingFields)
	}

	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return e.Wrap(op, e.ErrInvalidStatus)
	}

	var tracking *string
	if req.TrackingNumber != nil && strings.TrimSpace(*req.TrackingNumber) != "" {
		t := strings.TrimSpace(*req.TrackingNumber)
		tracking = &t
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, tracking); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
