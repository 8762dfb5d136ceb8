package schedules

import (
	"context"
	"errors"
	"fmt"

	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

// Service сервис управления рабочими часами и отгулами терапевтов
type Service struct {
	scheduleRepo  ScheduleRepository
	therapistRepo TherapistRepository
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, therapistRepo TherapistRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		therapistRepo: therapistRepo,
		logger:        logger,
	}
}

// Create создает блок рабочих часов или отгула
func (s *Service) Create(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("Create: creating %s block for therapist=%d", req.Type, req.TherapistID)

	// 1. Собираем и валидируем блок
	block, err := req.ToDomainBlock()
	if err != nil {
		s.logger.Warn("Create: invalid block: %v", err)
		return nil, err
	}
	if err := block.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование терапевта
	if _, err := s.therapistRepo.GetTherapist(ctx, block.TherapistID); err != nil {
		if errors.Is(err, catalogRepo.ErrTherapistNotFound) {
			s.logger.Warn("Create: therapist id=%d not found", block.TherapistID)
			return nil, ErrTherapistNotFound
		}
		s.logger.Error("Create: failed to get therapist id=%d: %v", block.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	// 3. Сохраняем блок
	created, err := s.scheduleRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created block id=%d (%s, closed=%t)", created.ID, created.Day, created.IsClosed)
	return models.FromDomainBlock(created), nil
}

// ListByTherapist получает активные блоки терапевта
func (s *Service) ListByTherapist(ctx context.Context, therapistID int64) (*models.BlockListResponse, error) {
	blocks, err := s.scheduleRepo.ListByTherapists(ctx, []int64{therapistID})
	if err != nil {
		s.logger.Error("ListByTherapist: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: ListByTherapist - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlockList(blocks), nil
}

// Deactivate выключает блок
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	s.logger.Info("Deactivate: deactivating block id=%d", id)

	if err := s.scheduleRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockNotFound) {
			s.logger.Warn("Deactivate: block id=%d not found", id)
			return ErrBlockNotFound
		}
		s.logger.Error("Deactivate: repository error for block id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated block id=%d", id)
	return nil
}
