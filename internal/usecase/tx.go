package usecase

import (
	"context"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/expressimports/backend/pkg/tr"
	"github.com/jackc/pgx/v5"
)

// readCommitted - уровень изоляции для оформления заказов:
// корректность остатков обеспечивают блокировки строк и условный UPDATE.
var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// inTx выполняет fn в одной транзакции. Транзакция лежит в контексте fn,
// репозитории достают её через tr.TxFromCtx. Любая ошибка fn откатывает транзакцию.
func inTx(ctx context.Context, db transaction.Transactional, opts pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, opts, db)
	if err != nil {
		return err
	}
	// Если произошла ошибка, происходит Rollback транзакции
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction())); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
