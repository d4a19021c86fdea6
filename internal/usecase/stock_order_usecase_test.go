package usecase_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/internal/usecase/mocks"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderEnv struct {
	uc       *usecase.StockOrderUseCase
	db       *mocks.MockDB
	products *mocks.MockProductRepo
	orders   *mocks.MockStockOrderRepo
	cache    *mocks.MockCacheRepo
	sink     *mocks.MockSink
}

func newOrderEnv(seed ...domain.Product) *orderEnv {
	env := &orderEnv{
		db:       mocks.NewMockDB(),
		products: mocks.NewMockProductRepo(seed...),
		orders:   mocks.NewMockStockOrderRepo(),
		cache:    mocks.NewMockCacheRepo(),
		sink:     mocks.NewMockSink(),
	}
	env.uc = usecase.NewStockOrderUC(env.products, env.orders, env.cache, env.db, env.sink, time.Second, logger.Nop())
	return env
}

func stocked(id int64, name string, price int64, qty int) domain.Product {
	p := domain.Product{ID: id, Name: name, Price: price, StockQuantity: qty}
	p.RecalcAvailability()
	return p
}

func orderReq(items ...usecase.OrderItemReq) *usecase.PlaceOrderReq {
	return &usecase.PlaceOrderReq{
		CustomerName:    "Ana",
		CustomerEmail:   "ana@example.com",
		ShippingAddress: "Calle 1, Miami",
		Items:           items,
	}
}

func TestPlaceOrder_TwoOrdersAgainstStockOfFive(t *testing.T) {
	env := newOrderEnv(stocked(1, "P", 1000, 5))
	ctx := context.Background()

	res, err := env.uc.PlaceOrder(ctx, orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: 3}))
	require.NoError(t, err)
	assert.Equal(t, int64(3000), res.Total)

	p, _ := env.products.Product(1)
	assert.Equal(t, 2, p.StockQuantity)
	assert.True(t, p.InStock)

	_, err = env.uc.PlaceOrder(ctx, orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: 3}))
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	var se *e.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "P", se.ProductName)

	p, _ = env.products.Product(1)
	assert.Equal(t, 2, p.StockQuantity)
	assert.Len(t, env.orders.Orders(), 1)
}

func TestPlaceOrder_TotalAndSnapshots(t *testing.T) {
	env := newOrderEnv(
		stocked(1, "AirPods Pro 3", 18999, 15),
		stocked(2, "Philips Hue", 14999, 8),
	)

	res, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 2, Quantity: 2},
		usecase.OrderItemReq{ProductID: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(18999+2*14999), res.Total)

	orders := env.orders.Orders()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, res.ID, o.ID)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(14999), o.Items[0].Price)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "AirPods Pro 3", o.Items[1].ProductName)
	assert.Equal(t, 1, o.Items[1].Quantity)

	var sum int64
	for _, it := range o.Items {
		sum += it.Subtotal()
	}
	assert.Equal(t, o.Total, sum)

	p1, _ := env.products.Product(1)
	p2, _ := env.products.Product(2)
	assert.Equal(t, 14, p1.StockQuantity)
	assert.Equal(t, 6, p2.StockQuantity)
}

func TestPlaceOrder_RunsInReadCommittedTxWithLocksInIDOrder(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 100, 5), stocked(7, "B", 100, 5))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 7, Quantity: 1},
		usecase.OrderItemReq{ProductID: 1, Quantity: 1},
		usecase.OrderItemReq{ProductID: 7, Quantity: 1},
	))
	require.NoError(t, err)

	tx := env.db.LastTx()
	require.NotNil(t, tx)
	assert.Equal(t, pgx.ReadCommitted, tx.Opts.IsoLevel)
	assert.True(t, tx.Committed)

	require.Len(t, env.products.LockCalls, 1)
	assert.Equal(t, []int64{1, 7}, env.products.LockCalls[0].IDs)
	assert.True(t, env.products.LockCalls[0].InTx)

	require.Len(t, env.products.DecrementCalls, 2)
	assert.Equal(t, mocks.DecrementCall{ID: 1, Quantity: 1, InTx: true}, env.products.DecrementCalls[0])
	assert.Equal(t, mocks.DecrementCall{ID: 7, Quantity: 2, InTx: true}, env.products.DecrementCalls[1])
}

func TestPlaceOrder_DuplicateItemsAggregatedAgainstStock(t *testing.T) {
	env := newOrderEnv(stocked(1, "Roomba", 59999, 5))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 1, Quantity: 3},
		usecase.OrderItemReq{ProductID: 1, Quantity: 3},
	))
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	p, _ := env.products.Product(1)
	assert.Equal(t, 5, p.StockQuantity)
	assert.Empty(t, env.orders.Orders())
}

func TestPlaceOrder_AnyItemOverStockWritesNothing(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 1000, 10), stocked(2, "B", 500, 1))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 1, Quantity: 2},
		usecase.OrderItemReq{ProductID: 2, Quantity: 2},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B")

	a, _ := env.products.Product(1)
	b, _ := env.products.Product(2)
	assert.Equal(t, 10, a.StockQuantity)
	assert.Equal(t, 1, b.StockQuantity)
	assert.Empty(t, env.orders.Orders())
	assert.True(t, env.db.LastTx().RolledBack)
	assert.Empty(t, env.sink.Orders)
}

func TestPlaceOrder_NotAvailable(t *testing.T) {
	env := newOrderEnv(stocked(1, "iPhone 15 Pro Max", 89999, 0))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1}))
	assert.ErrorIs(t, err, e.ErrProductNotAvailable)
	assert.Contains(t, err.Error(), "iPhone 15 Pro Max")

	_, err = env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 99}))
	assert.ErrorIs(t, err, e.ErrProductNotAvailable)
}

func TestPlaceOrder_GuardedDecrementFailureRollsBack(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 100, 5), stocked(2, "B", 100, 5))
	guard := &flakyDecrement{MockProductRepo: env.products, failOn: 2}
	uc := usecase.NewStockOrderUC(guard, env.orders, env.cache, env.db, env.sink, time.Second, logger.Nop())

	_, err := uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 1, Quantity: 1},
		usecase.OrderItemReq{ProductID: 2, Quantity: 1},
	))
	require.Error(t, err)

	var se *e.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(2), se.ProductID)
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	a, _ := env.products.Product(1)
	assert.Equal(t, 5, a.StockQuantity, "first decrement must be rolled back")
	assert.Empty(t, env.orders.Orders())
}

// flakyDecrement отклоняет n-е списание так, как это сделал бы условный UPDATE
// после конкурентной покупки.
type flakyDecrement struct {
	*mocks.MockProductRepo
	failOn int
	calls  int
}

func (f *flakyDecrement) DecrementStock(ctx context.Context, id int64, quantity int) error {
	f.calls++
	if f.calls == f.failOn {
		return e.ErrInsufficientStock
	}
	return f.MockProductRepo.DecrementStock(ctx, id, quantity)
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *usecase.PlaceOrderReq
		want error
	}{
		{"empty items", orderReq(), e.ErrEmptyItems},
		{"negative quantity", orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: -1}), e.ErrInvalidQuantity},
		{"quantity above int32", orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: math.MaxInt32 + 1}), e.ErrInvalidQuantity},
		{"bad product id", orderReq(usecase.OrderItemReq{ProductID: 0, Quantity: 1}), e.ErrInvalidID},
		{"missing address", &usecase.PlaceOrderReq{
			CustomerName: "Ana", CustomerEmail: "a@b.c",
			Items: []usecase.OrderItemReq{{ProductID: 1}},
		}, e.ErrMissingFields},
		{"blank name", &usecase.PlaceOrderReq{
			CustomerName: "  ", CustomerEmail: "a@b.c", ShippingAddress: "x",
			Items: []usecase.OrderItemReq{{ProductID: 1}},
		}, e.ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newOrderEnv(stocked(1, "A", 100, 5))

			_, err := env.uc.PlaceOrder(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.db.Txs, "validation must fail before any transaction")
			assert.Empty(t, env.orders.Orders())
		})
	}
}

func TestPlaceOrder_RepeatedHugeQuantitiesDoNotWrap(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 1000, 5))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 1, Quantity: math.MaxInt64},
		usecase.OrderItemReq{ProductID: 1, Quantity: math.MaxInt64},
	))
	require.ErrorIs(t, err, e.ErrInvalidQuantity)

	p, _ := env.products.Product(1)
	assert.Equal(t, 5, p.StockQuantity)
	assert.Empty(t, env.products.DecrementCalls)
	assert.Empty(t, env.orders.Orders())
}

func TestPlaceOrder_RepeatedMaxQuantitiesExceedStock(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 1000, math.MaxInt32))

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(
		usecase.OrderItemReq{ProductID: 1, Quantity: math.MaxInt32},
		usecase.OrderItemReq{ProductID: 1, Quantity: 1},
	))
	require.ErrorIs(t, err, e.ErrInsufficientStock)
	assert.Empty(t, env.products.DecrementCalls)
	assert.Empty(t, env.orders.Orders())
}

func TestPlaceOrder_CommitFailure(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 100, 5))
	env.db.CommitErr = errors.New("connection reset")

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: 2}))
	require.Error(t, err)

	p, _ := env.products.Product(1)
	assert.Equal(t, 5, p.StockQuantity)
	assert.Empty(t, env.orders.Orders())
	assert.Empty(t, env.sink.Orders)
}

func TestPlaceOrder_NotifiesAndInvalidatesCache(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 250, 5))
	env.cache.Put(stocked(1, "A", 250, 5))

	res, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: 2}))
	require.NoError(t, err)

	assert.False(t, env.cache.Has(1))
	require.Len(t, env.sink.Orders, 1)
	n := env.sink.Orders[0]
	assert.Equal(t, res.ID, n.OrderID)
	assert.Equal(t, int64(500), n.Total)
	assert.Equal(t, "ana@example.com", n.CustomerEmail)
	assert.Equal(t, "Calle 1, Miami", n.ShippingAddress)
}

func TestPlaceOrder_NotificationFailureDoesNotFailOrder(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 250, 5))
	env.sink.Err = errors.New("smtp: 535 auth failed")

	_, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1}))
	require.NoError(t, err)
	assert.Len(t, env.orders.Orders(), 1)
}

func TestPlaceOrder_NotificationPanicIsContained(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 250, 5))
	env.sink.Panic = true

	require.NotPanics(t, func() {
		_, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1}))
		require.NoError(t, err)
	})
	assert.Len(t, env.orders.Orders(), 1)
}

func TestPlaceOrder_NotificationSurvivesRequestCancellation(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 250, 5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		errAtCall   error
		hasDeadline bool
	)
	env.sink.OnCall = func(nctx context.Context) {
		// клиент отключился, пока отправляется письмо
		cancel()
		errAtCall = nctx.Err()
		_, hasDeadline = nctx.Deadline()
	}

	_, err := env.uc.PlaceOrder(ctx, orderReq(usecase.OrderItemReq{ProductID: 1}))
	require.NoError(t, err)

	require.Len(t, env.sink.Orders, 1)
	assert.NoError(t, errAtCall)
	assert.True(t, hasDeadline)
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 100, 5))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1, Quantity: 3}))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, _ := env.products.Product(1)
	assert.Equal(t, 1, success)
	assert.Equal(t, 2, p.StockQuantity)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newOrderEnv(stocked(1, "A", 100, 5))
	res, err := env.uc.PlaceOrder(context.Background(), orderReq(usecase.OrderItemReq{ProductID: 1}))
	require.NoError(t, err)

	tracking := " 1Z999AA10123456784 "
	err = env.uc.UpdateOrderStatus(context.Background(), res.ID, &usecase.UpdateOrderStatusReq{
		Status:         "Shipped",
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)

	o := env.orders.Orders()[0]
	assert.Equal(t, domain.OrderStatusShipped, o.Status)
	require.NotNil(t, o.TrackingNumber)
	assert.Equal(t, "1Z999AA10123456784", *o.TrackingNumber)

	err = env.uc.UpdateOrderStatus(context.Background(), res.ID, &usecase.UpdateOrderStatusReq{Status: "quoted"})
	assert.ErrorIs(t, err, e.ErrInvalidStatus)

	err = env.uc.UpdateOrderStatus(context.Background(), 404, &usecase.UpdateOrderStatusReq{Status: "delivered"})
	assert.ErrorIs(t, err, e.ErrStockOrderNotFound)
}
