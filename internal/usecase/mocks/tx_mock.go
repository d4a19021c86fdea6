package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/expressimports/backend/pkg/tr"
	"github.com/jackc/pgx/v5"
)

// MockDB реализует transaction.Transactional и выдаёт MockTx.
type MockDB struct {
	mu sync.Mutex

	BeginErr  error
	CommitErr error

	Txs []*MockTx
}

func NewMockDB() *MockDB {
	return &MockDB{}
}

// BeginTx начинает фиктивную транзакцию.
func (m *MockDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BeginErr != nil {
		return nil, m.BeginErr
	}

	tx := &MockTx{Opts: opts, commitErr: m.CommitErr}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// LastTx возвращает последнюю начатую транзакцию или nil.
func (m *MockDB) LastTx() *MockTx {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Txs) == 0 {
		return nil
	}
	return m.Txs[len(m.Txs)-1]
}

// MockTx запоминает компенсации изменений и применяет их при Rollback.
// Методы pgx.Tx, не переопределённые здесь, паникуют.
type MockTx struct {
	pgx.Tx

	mu         sync.Mutex
	Opts       pgx.TxOptions
	Committed  bool
	RolledBack bool
	commitErr  error
	undo       []func()
}

func (t *MockTx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Committed || t.RolledBack {
		return errors.New("tx is closed")
	}
	if t.commitErr != nil {
		t.rollbackLocked()
		return t.commitErr
	}

	t.Committed = true
	t.undo = nil
	return nil
}

func (t *MockTx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Committed || t.RolledBack {
		return nil
	}
	t.rollbackLocked()
	return nil
}

func (t *MockTx) rollbackLocked() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.RolledBack = true
}

func (t *MockTx) onRollback(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.undo = append(t.undo, f)
}

// txFromCtx возвращает MockTx из контекста, если изменение выполняется в транзакции.
func txFromCtx(ctx context.Context) (*MockTx, bool) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, false
	}
	mtx, ok := tx.(*MockTx)
	return mtx, ok
}

// track регистрирует компенсацию, если вызов идёт внутри транзакции.
func track(ctx context.Context, undo func()) {
	if tx, ok := txFromCtx(ctx); ok {
		tx.onRollback(undo)
	}
}
