package schedules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория блоков расписания
type ScheduleRepository interface {
	Create(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error)
	ListByTherapists(ctx context.Context, therapistIDs []int64) ([]*domain.ScheduleBlock, error)
	Deactivate(ctx context.Context, id int64) error
}

// TherapistRepository интерфейс чтения терапевтов
type TherapistRepository interface {
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
