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

// QuoteRepo хранит запросы на расчёт стоимости и их позиции.
type QuoteRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewQuoteRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *QuoteRepo {
	return &QuoteRepo{pool: pool, conv: conv}
}

// Create вставляет заголовок и позиции запроса. Вызывается только внутри транзакции.
func (r *QuoteRepo) Create(ctx context.Context, quote *domain.Quote) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (customer_name, customer_email, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, quote.CustomerName, quote.CustomerEmail, quote.Message, string(quote.Status)).Scan(&id)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	batch := &pgx.Batch{}
	for _, it := range quote.Items {
		batch.Queue(`
			INSERT INTO quote_items (quote_id, product_id, product_name, quantity)
			VALUES ($1, $2, $3, $4)
		`, id, it.ProductID, it.ProductName, it.Quantity)
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return 0, err
	}

	return id, nil
}

// List возвращает запросы, новые первыми, со сводкой "Name (xN), ...".
func (r *QuoteRepo) List(ctx context.Context) ([]usecase.QuoteSummary, error) {
	query := `
		SELECT q.id, q.customer_name, q.customer_email, q.message, q.status,
			q.created_at, q.updated_at,
			COALESCE(STRING_AGG(qi.product_name || ' (x' || qi.quantity || ')', ', ' ORDER BY qi.id), '') AS items
		FROM quotes q
		LEFT JOIN quote_items qi ON qi.quote_id = q.id
		GROUP BY q.id
		ORDER BY q.created_at DESC, q.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.QuoteModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.QuoteSummary, 0, len(models))
	for i := range models {
		result = append(result, r.conv.QuoteToSummary(&models[i]))
	}

	return result, nil
}

func (r *QuoteRepo) UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) error {
	q := tr.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `UPDATE quotes SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrQuoteNotFound
	}

	return nil
}

// execBatch выполняет вставки позиций. Нарушение внешнего ключа означает,
// что товар удалён параллельно.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isForeignKeyViolation(err) {
				return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
			}
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := br.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
