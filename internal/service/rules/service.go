package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

// Service сервис управления правилами доступности
type Service struct {
	ruleRepo    RuleRepository
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	ruleRepo RuleRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:    ruleRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Create создает новое правило доступности
// Селектор дня и лимит проверяются до любой записи
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule for option=%d, therapist=%v", req.ServiceOptionID, req.TherapistID)

	// 1. Получаем вариант услуги
	option, err := s.catalogRepo.GetServiceOption(ctx, req.ServiceOptionID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceOptionNotFound) {
			s.logger.Warn("Create: service option id=%d not found", req.ServiceOptionID)
			return nil, ErrServiceOptionNotFound
		}
		s.logger.Error("Create: failed to get service option id=%d: %v", req.ServiceOptionID, err)
		return nil, fmt.Errorf("%w: failed to get service option: %v", ErrInternal, err)
	}

	// 2. Собираем и валидируем правило
	rule, err := req.ToDomainRule(option.ServiceID)
	if err != nil {
		s.logger.Warn("Create: invalid rule: %v", err)
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Если указан терапевт, проверяем его существование
	if err := s.checkTherapist(ctx, "Create", rule.TherapistID); err != nil {
		return nil, err
	}

	// 4. Сохраняем правило
	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created rule id=%d (%s %s, limit=%d)",
		created.ID, created.Day, created.StartTime, created.BookingLimit)
	return models.FromDomainRule(created), nil
}

// GetByID получает правило по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RuleResponse, error) {
	rule, err := s.getRule(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainRule(rule), nil
}

// List получает правила по фильтру
func (s *Service) List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching rules for option=%v, therapist=%v", req.ServiceOptionID, req.TherapistID)

	rules, err := s.ruleRepo.List(ctx, ruleRepo.Filter{
		ServiceOptionID: req.ServiceOptionID,
		TherapistID:     req.TherapistID,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rules", len(rules))
	return models.FromDomainRuleList(rules), nil
}

// Update обновляет существующее правило
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: updating rule id=%d", id)

	// 1. Получаем существующее правило
	rule, err := s.getRule(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	// 2. Применяем обновления к копии и валидируем
	updated := *rule
	if err := req.ApplyToRule(&updated); err != nil {
		s.logger.Warn("Update: invalid update for rule id=%d: %v", id, err)
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for rule id=%d: %v", id, err)
		return nil, err
	}
	if err := s.checkTherapist(ctx, "Update", req.TherapistID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.ruleRepo.Update(ctx, id, &updated)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Update: rule id=%d not found during update", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Update: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated rule id=%d", id)
	return models.FromDomainRule(saved), nil
}

// Deactivate выключает правило без удаления; история бронирований сохраняется
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	s.logger.Info("Deactivate: deactivating rule id=%d", id)

	if err := s.ruleRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Deactivate: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Deactivate: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated rule id=%d", id)
	return nil
}

// Delete удаляет правило
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting rule id=%d", id)

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getRule(ctx context.Context, op string, id int64) (*domain.AvailabilityRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("%s: rule id=%d not found", op, id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("%s: repository error for rule id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return rule, nil
}

func (s *Service) checkTherapist(ctx context.Context, op string, therapistID *int64) error {
	if therapistID == nil {
		return nil
	}
	if _, err := s.catalogRepo.GetTherapist(ctx, *therapistID); err != nil {
		if errors.Is(err, catalogRepo.ErrTherapistNotFound) {
			s.logger.Warn("%s: therapist id=%d not found", op, *therapistID)
			return ErrTherapistNotFound
		}
		s.logger.Error("%s: failed to get therapist id=%d: %v", op, *therapistID, err)
		return fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}
	return nil
}
