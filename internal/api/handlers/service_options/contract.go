package service_options

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/catalog/models"
)

type CatalogService interface {
	GetServiceOption(ctx context.Context, id int64) (*models.ServiceOptionResponse, error)
	UpdateOptionPrice(ctx context.Context, id int64, req *models.UpdatePriceRequest) (*models.ServiceOptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
