package pgdb

import (
	"context"
	"errors"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/repository/pgdb/converter"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// GetByID возвращает продукт по идентификатору.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, e.ErrProductNotFound
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetByIDs возвращает найденные продукты. Отсутствующих id в результате нет.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	return p.collectByIDs(ctx, q, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
}

// LockForUpdate читает продукты с блокировкой строк до конца транзакции.
// Строки блокируются по возрастанию id, поэтому встречные заказы не взаимоблокируются.
func (p *ProductRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.collectByIDs(ctx, tx, lockForUpdateQuery, ids)
}

const lockForUpdateQuery = `
	SELECT ` + productColumns + `
	FROM products
	WHERE id = ANY($1)
	ORDER BY id
	FOR UPDATE
`

func (p *ProductRepo) collectByIDs(ctx context.Context, q tr.Querier, query string, ids []int64) (map[int64]domain.Product, error) {
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[int64]domain.Product, len(models))
	for i := range models {
		result[models[i].ID] = *p.conv.ToEntity(&models[i])
	}

	return result, nil
}

// List возвращает продукты по фильтру.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductListFilter) ([]domain.Product, error) {
	query, args := FromListFilter(filter).Query()

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// Create добавляет продукт и возвращает его id.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)
	m := p.conv.ToModel(product)

	query := `
		INSERT INTO products (
			name, description, price, original_price, category, image_emoji,
			stock_quantity, in_stock, is_offer, is_new, is_premium, shipping_info
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		m.Name, m.Description, m.Price, m.OriginalPrice, m.Category, m.ImageEmoji,
		m.StockQuantity, m.InStock, m.IsOffer, m.IsNew, m.IsPremium, m.ShippingInfo,
	).Scan(&id)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// Update полностью перезаписывает поля продукта, кроме image_key.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	q := tr.QuerierFromCtx(ctx, p.pool)
	m := p.conv.ToModel(product)

	query := `
		UPDATE products SET
			name = $2, description = $3, price = $4, original_price = $5, category = $6,
			image_emoji = $7, stock_quantity = $8, in_stock = $9, is_offer = $10,
			is_new = $11, is_premium = $12, shipping_info = $13, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.OriginalPrice, m.Category,
		m.ImageEmoji, m.StockQuantity, m.InStock, m.IsOffer,
		m.IsNew, m.IsPremium, m.ShippingInfo,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// Delete удаляет продукт. Позиции заказов остаются со ссылкой NULL и снимком названия.
func (p *ProductRepo) Delete(ctx context.Context, id int64) (*string, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var imageKey *string
	err := q.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING image_key`, id).Scan(&imageKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, e.ErrProductNotFound
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return imageKey, nil
}

// DecrementStock списывает остаток условным UPDATE.
// Если строка не обновилась, остатка не хватило.
func (p *ProductRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query, args := decrementStockQuery(id, quantity)

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrInsufficientStock
	}

	return nil
}

func decrementStockQuery(id int64, quantity int) (string, []any) {
	query := `
		UPDATE products SET
			stock_quantity = stock_quantity - $2,
			in_stock = (stock_quantity - $2) > 0,
			updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
	`

	return query, []any{id, quantity}
}

// SetImageKey записывает ключ изображения и возвращает предыдущий.
func (p *ProductRepo) SetImageKey(ctx context.Context, id int64, key string) (*string, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		UPDATE products p SET image_key = $2, updated_at = NOW()
		FROM (SELECT id, image_key FROM products WHERE id = $1 FOR UPDATE) old
		WHERE p.id = old.id
		RETURNING old.image_key
	`

	var prev *string
	err := q.QueryRow(ctx, query, id, key).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, e.ErrProductNotFound
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return prev, nil
}
