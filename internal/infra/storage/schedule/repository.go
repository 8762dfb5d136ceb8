package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var blockColumns = []string{
	"id",
	"therapist_id",
	"type",
	"day_of_week",
	"specific_date",
	"start_time",
	"end_time",
	"effective_from",
	"effective_to",
	"is_closed",
	"is_active",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий блоков расписания (рабочие часы и отгулы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый блок расписания
func (r *Repository) Create(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	dayOfWeek, specificDate := block.Day.Columns()

	query, args, err := psqlbuilder.Insert("schedule_blocks").
		Columns(
			"therapist_id",
			"type",
			"day_of_week",
			"specific_date",
			"start_time",
			"end_time",
			"effective_from",
			"effective_to",
			"is_closed",
			"is_active",
			"reason",
		).
		Values(
			block.TherapistID,
			block.Type,
			dayOfWeek,
			specificDate,
			block.StartTime,
			block.EndTime,
			block.EffectiveFrom,
			block.EffectiveTo,
			block.IsClosed,
			block.IsActive,
			block.Reason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return block, nil
}

// ListByTherapists получает активные блоки расписания терапевтов
// Выбор блоков на конкретную дату делает scheduling.ResolveBlocks
func (r *Repository) ListByTherapists(ctx context.Context, therapistIDs []int64) ([]*domain.ScheduleBlock, error) {
	if len(therapistIDs) == 0 {
		return []*domain.ScheduleBlock{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("schedule_blocks").
		Where(squirrel.Eq{"therapist_id": therapistIDs}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("therapist_id ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTherapists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTherapists - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.ScheduleBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTherapists - scan block: %w", ErrScanRow, err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTherapists - iterate rows: %w", ErrScanRow, err)
	}

	return blocks, nil
}

// Deactivate выключает блок (мягкое удаление)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_blocks").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.ScheduleBlock, error) {
	var (
		block                domain.ScheduleBlock
		dayOfWeek            *int
		specificDate         *time.Time
		startTime, endTime   sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&block.ID,
		&block.TherapistID,
		&block.Type,
		&dayOfWeek,
		&specificDate,
		&startTime,
		&endTime,
		&block.EffectiveFrom,
		&block.EffectiveTo,
		&block.IsClosed,
		&block.IsActive,
		&block.Reason,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}

	block.Day, err = domain.NewDaySelector(dayOfWeek, specificDate)
	if err != nil {
		return nil, err
	}

	// У блока "закрыто" времени нет
	if startTime.Valid {
		if block.StartTime, err = types.NewTimeStringFromString(startTime.String); err != nil {
			return nil, err
		}
	}
	if endTime.Valid {
		if block.EndTime, err = types.NewTimeStringFromString(endTime.String); err != nil {
			return nil, err
		}
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return &block, nil
}
