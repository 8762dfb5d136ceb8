package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

// Коды ошибок Postgres, после которых транзакцию можно повторить
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// TransactionManager выполняет функции внутри транзакции.
// Транзакция передаётся через контекст (см. dbmetrics.WithTx), поэтому репозитории
// подхватывают её автоматически.
type TransactionManager struct {
	db dbmetrics.TxBeginner
}

// NewTransactionManager создает менеджер транзакций поверх *dbmetrics.DB
func NewTransactionManager(db dbmetrics.TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelDefault}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в READ ONLY транзакции с REPEATABLE READ: все чтения видят
// один снимок данных
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return classify(fmt.Errorf("%w: %v", ErrBeginTx, err), err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txCtx := dbmetrics.WithTx(ctx, tx)
	if opts.ReadOnly {
		txCtx = dbmetrics.WithReadOnly(txCtx)
	}

	if err = fn(txCtx); err != nil {
		return classify(err, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = classify(fmt.Errorf("%w: %v", ErrCommitTx, commitErr), commitErr)
		return err
	}

	return nil
}

// classify помечает повторяемые ошибки и таймауты, сохраняя исходную цепочку wrapped
func classify(wrapped error, cause error) error {
	var pqErr *pq.Error
	if errors.As(cause, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %w", ErrSerializationFailure, wrapped)
		}
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, wrapped)
	}
	return wrapped
}

// IsRetryable сообщает, можно ли повторить операцию после ошибки
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSerializationFailure)
}
