package slotrow

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository синтетические строки slot_locks: по одной на ключ слота.
// Блокировка строки FOR UPDATE сериализует транзакции, пишущие в один слот,
// даже когда бронирований в слоте еще нет и блокировать нечего.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Lock создает строку ключа, если ее нет, и блокирует ее до конца текущей транзакции
func (r *Repository) Lock(ctx context.Context, key string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("slot_locks").
		Columns("lock_key").
		Values(key).
		Suffix("ON CONFLICT (lock_key) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Lock - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Lock - upsert lock row: %w", ErrExecQuery, err)
	}

	selectQuery, selectArgs, err := psqlbuilder.Select("lock_key").
		From("slot_locks").
		Where(squirrel.Eq{"lock_key": key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Lock - build select query: %v", ErrBuildQuery, err)
	}

	var locked string
	if err := executor.QueryRowContext(ctx, selectQuery, selectArgs...).Scan(&locked); err != nil {
		return fmt.Errorf("%w: Lock - select for update: %w", ErrExecQuery, err)
	}

	return nil
}
