package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"client_id",
	"service_id",
	"service_option_id",
	"therapist_id",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"price_at_booking",
	"payment_ref",
	"refund_amount",
	"client_name",
	"service_name",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Внутри транзакции создания вызывается только после проверки вместимости слота.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"client_id",
			"service_id",
			"service_option_id",
			"therapist_id",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"price_at_booking",
			"payment_ref",
			"client_name",
			"service_name",
			"notes",
		).
		Values(
			booking.ClientID,
			booking.ServiceID,
			booking.ServiceOptionID,
			booking.TherapistID,
			booking.StartTime.UTC(),
			booking.EndTime.UTC(),
			booking.Status,
			booking.PaymentStatus,
			booking.PriceAtBooking,
			booking.PaymentRef,
			booking.ClientName,
			booking.ServiceName,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// В транзакции строка блокируется (FOR UPDATE), чтобы смена статуса не гонялась с другой
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру, упорядоченные по времени начала
// В транзакции выбранные строки блокируются (FOR UPDATE): подсчет вместимости
// и вставка должны видеть одно и то же множество бронирований
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("start_time ASC", "id ASC")

	if filter.ServiceOptionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_option_id": *filter.ServiceOptionID})
	}
	if filter.TherapistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"therapist_id": *filter.TherapistID})
	}
	// Пересечение с периодом: бронирование начинается до его конца и заканчивается после начала
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": filter.From.UTC()})
	}
	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.CancelledStatuses})
	}

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	return r.update(ctx, "UpdateStatus", id, squirrel.Eq{"status": status})
}

// Cancel переводит бронирование в статус отмены и фиксирует сумму возврата
// price_at_booking не меняется
func (r *Repository) Cancel(
	ctx context.Context,
	id int64,
	status domain.BookingStatus,
	reason *string,
	cancelledAt time.Time,
	paymentStatus domain.PaymentStatus,
	refund *money.Cents,
) error {
	if !status.IsCancelled() {
		return fmt.Errorf("%w: %s is not a cancellation", ErrInvalidStatus, status)
	}

	return r.update(ctx, "Cancel", id, squirrel.Eq{
		"status":              status,
		"cancellation_reason": reason,
		"cancelled_at":        cancelledAt.UTC(),
		"payment_status":      paymentStatus,
		"refund_amount":       refund,
	})
}

// UpdatePayment обновляет статус оплаты и ссылку на платеж
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, paymentRef *string) error {
	values := squirrel.Eq{"payment_status": status}
	if paymentRef != nil {
		values["payment_ref"] = *paymentRef
	}
	return r.update(ctx, "UpdatePayment", id, values)
}

func (r *Repository) update(ctx context.Context, op string, id int64, values squirrel.Eq) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	for _, column := range sortedKeys(values) {
		builder = builder.Set(column, values[column])
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ServiceID,
		&booking.ServiceOptionID,
		&booking.TherapistID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PriceAtBooking,
		&booking.PaymentRef,
		&booking.RefundAmount,
		&booking.ClientName,
		&booking.ServiceName,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
