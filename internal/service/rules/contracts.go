package rules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
)

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	List(ctx context.Context, filter ruleRepo.Filter) ([]*domain.AvailabilityRule, error)
	Update(ctx context.Context, id int64, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServiceOption(ctx context.Context, id int64) (*domain.ServiceOption, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
