package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория блоков расписания
type ScheduleRepository interface {
	ListByTherapists(ctx context.Context, therapistIDs []int64) ([]*domain.ScheduleBlock, error)
}

// TherapistRepository интерфейс чтения терапевтов
type TherapistRepository interface {
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	ListActiveTherapists(ctx context.Context) ([]*domain.Therapist, error)
}

// TransactionManager дает всем чтениям один снимок данных
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики проблем в данных
type Metrics interface {
	CorruptBookingDuration(therapist string)
	OvernightWrap(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
