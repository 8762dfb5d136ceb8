package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(
		ctx context.Context,
		id int64,
		status domain.BookingStatus,
		reason *string,
		cancelledAt time.Time,
		paymentStatus domain.PaymentStatus,
		refund *money.Cents,
	) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, paymentRef *string) error
}

// PaymentGateway интерфейс возврата средств
type PaymentGateway interface {
	Refund(ctx context.Context, req payment.RefundRequest) (*payment.Refund, error)
}

// Notifier интерфейс публикации событий
type Notifier interface {
	BookingCancelled(ctx context.Context, booking *domain.Booking) error
}

// Metrics доменные счетчики
type Metrics interface {
	Cancellation(initiator string)
	Refund(tier string, cents int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
