package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
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

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	List(ctx context.Context, filter ruleRepo.Filter) ([]*domain.AvailabilityRule, error)
}

// ScheduleRepository интерфейс репозитория блоков расписания
type ScheduleRepository interface {
	ListByTherapists(ctx context.Context, therapistIDs []int64) ([]*domain.ScheduleBlock, error)
}

// CatalogRepository интерфейс каталога
type CatalogRepository interface {
	GetServiceOption(ctx context.Context, id int64) (*domain.ServiceOption, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
}

// SlotRowLocker блокирует синтетическую строку слота внутри транзакции
type SlotRowLocker interface {
	Lock(ctx context.Context, key string) error
}

// SlotLocker сериализует писателей одного слота до открытия транзакции
type SlotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
	Backend() string
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Verify(ctx context.Context, paymentRef string, expected money.Cents) error
	Charge(ctx context.Context, req payment.ChargeRequest) (string, error)
}

// Notifier интерфейс публикации событий
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
	PaymentFailed(ctx context.Context, booking *domain.Booking, reason string) error
}

// Metrics доменные счетчики
type Metrics interface {
	BookingAttempt(outcome string)
	SlotLockWaited(backend string, elapsed time.Duration)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
