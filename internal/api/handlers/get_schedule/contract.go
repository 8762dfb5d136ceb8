package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getSchedule "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_schedule"
)

type GetScheduleUseCase interface {
	Daily(ctx context.Context, req *getSchedule.DailyRequest) (*domain.DailySchedule, error)
	Weekly(ctx context.Context, req *getSchedule.WeeklyRequest) (*domain.WeeklySchedule, error)
	Overview(ctx context.Context, req *getSchedule.OverviewRequest) (*domain.ScheduleOverview, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
