package catalog

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetServiceOption(ctx context.Context, id int64) (*domain.ServiceOption, error)
	UpdateOptionPrice(ctx context.Context, id int64, price money.Cents) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
