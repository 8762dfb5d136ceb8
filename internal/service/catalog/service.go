package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// Service сервис управления каталогом услуг
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// GetServiceOption получает вариант услуги по ID
func (s *Service) GetServiceOption(ctx context.Context, id int64) (*models.ServiceOptionResponse, error) {
	option, err := s.catalogRepo.GetServiceOption(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceOptionNotFound) {
			s.logger.Warn("GetServiceOption: service option id=%d not found", id)
			return nil, ErrServiceOptionNotFound
		}
		s.logger.Error("GetServiceOption: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetServiceOption - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceOption(option), nil
}

// UpdateOptionPrice меняет текущую цену варианта услуги.
// Новая цена действует только для новых бронирований.
func (s *Service) UpdateOptionPrice(ctx context.Context, id int64, req *models.UpdatePriceRequest) (*models.ServiceOptionResponse, error) {
	s.logger.Info("UpdateOptionPrice: updating price of option id=%d to %q", id, req.Price)

	// 1. Разбираем и проверяем цену
	price, err := money.FromMajor(req.Price)
	if err != nil {
		s.logger.Warn("UpdateOptionPrice: invalid price %q: %v", req.Price, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if price < 0 {
		s.logger.Warn("UpdateOptionPrice: negative price %s", price)
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidPrice)
	}

	// 2. Сохраняем цену
	if err := s.catalogRepo.UpdateOptionPrice(ctx, id, price); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceOptionNotFound) {
			s.logger.Warn("UpdateOptionPrice: service option id=%d not found", id)
			return nil, ErrServiceOptionNotFound
		}
		s.logger.Error("UpdateOptionPrice: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateOptionPrice - repository error: %v", ErrInternal, err)
	}

	// 3. Возвращаем вариант с новой ценой
	updated, err := s.GetServiceOption(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateOptionPrice: option id=%d now costs %s", id, updated.Price)
	return updated, nil
}
