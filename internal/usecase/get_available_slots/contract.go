package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
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
}

// TransactionManager дает чтениям снимка одну транзакцию
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
