package pgdb

import (
	"context"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/repository/pgdb/converter"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// StockOrderRepo хранит заказы со склада и их позиции со снимком цен.
type StockOrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewStockOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *StockOrderRepo {
	return &StockOrderRepo{pool: pool, conv: conv}
}

// Create вставляет заказ и его позиции. Вызывается только внутри транзакции.
func (r *StockOrderRepo) Create(ctx context.Context, order *domain.StockOrder) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_orders (customer_name, customer_email, shipping_address, total, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, order.CustomerName, order.CustomerEmail, order.ShippingAddress, order.Total, string(order.Status)).Scan(&id)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	batch := &pgx.Batch{}
	for _, it := range order.Items {
		batch.Queue(`
			INSERT INTO stock_order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, id, it.ProductID, it.ProductName, it.Quantity, it.Price)
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *StockOrderRepo) List(ctx context.Context) ([]usecase.StockOrderSummary, error) {
	query := `
		SELECT so.id, so.customer_name, so.customer_email, so.shipping_address, so.total,
			so.status, so.tracking_number, so.created_at, so.updated_at,
			COALESCE(STRING_AGG(soi.product_name || ' (x' || soi.quantity || ')', ', ' ORDER BY soi.id), '') AS items
		FROM stock_orders so
		LEFT JOIN stock_order_items soi ON soi.order_id = so.id
		GROUP BY so.id
		ORDER BY so.created_at DESC, so.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.StockOrderModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.StockOrderSummary, 0, len(models))
	for i := range models {
		result = append(result, r.conv.StockOrderToSummary(&models[i]))
	}

	return result, nil
}

// UpdateStatus меняет статус. Трек-номер перезаписывается только если передан.
func (r *StockOrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, trackingNumber *string) error {
	q := tr.QuerierFromCtx(ctx, r.pool)

	query := `
		UPDATE stock_orders SET
			status = $2,
			tracking_number = COALESCE($3, tracking_number),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, string(status), trackingNumber)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrStockOrderNotFound
	}

	return nil
}
