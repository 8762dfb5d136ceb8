package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository справочники: варианты услуг, терапевты, клиенты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceOption получает вариант услуги вместе с названием услуги
func (r *Repository) GetServiceOption(ctx context.Context, id int64) (*domain.ServiceOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"o.id",
		"o.service_id",
		"s.name",
		"o.name",
		"o.duration_minutes",
		"o.price",
		"o.is_active",
	).
		From("service_options o").
		Join("services s ON s.id = o.service_id").
		Where(squirrel.Eq{"o.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceOption - build select query: %v", ErrBuildQuery, err)
	}

	var option domain.ServiceOption
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&option.ID,
		&option.ServiceID,
		&option.ServiceName,
		&option.Name,
		&option.DurationMinutes,
		&option.Price,
		&option.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceOption - scan option: %w", ErrScanRow, err)
	}

	return &option, nil
}

// UpdateOptionPrice меняет текущую цену варианта услуги
// Уже созданные бронирования хранят свою цену и не затрагиваются
func (r *Repository) UpdateOptionPrice(ctx context.Context, id int64, price money.Cents) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_options").
		Set("price", price).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateOptionPrice - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOptionPrice - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOptionPrice - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceOptionNotFound
	}

	return nil
}

// GetTherapist получает терапевта по ID
func (r *Repository) GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "is_active").
		From("therapists").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTherapist - build select query: %v", ErrBuildQuery, err)
	}

	var therapist domain.Therapist
	err = executor.QueryRowContext(ctx, query, args...).Scan(&therapist.ID, &therapist.Name, &therapist.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTherapistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTherapist - scan therapist: %w", ErrScanRow, err)
	}

	return &therapist, nil
}

// ListActiveTherapists получает всех активных терапевтов
func (r *Repository) ListActiveTherapists(ctx context.Context) ([]*domain.Therapist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "is_active").
		From("therapists").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveTherapists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveTherapists - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	therapists := make([]*domain.Therapist, 0)
	for rows.Next() {
		var therapist domain.Therapist
		if err := rows.Scan(&therapist.ID, &therapist.Name, &therapist.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListActiveTherapists - scan therapist: %w", ErrScanRow, err)
		}
		therapists = append(therapists, &therapist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveTherapists - iterate rows: %w", ErrScanRow, err)
	}

	return therapists, nil
}

// GetClient получает клиента по ID
func (r *Repository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "email").
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - build select query: %v", ErrBuildQuery, err)
	}

	var client domain.Client
	err = executor.QueryRowContext(ctx, query, args...).Scan(&client.ID, &client.Name, &client.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - scan client: %w", ErrScanRow, err)
	}

	return &client, nil
}
