package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	ruleRepo     RuleRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ruleRepo RuleRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		ruleRepo:     ruleRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Вместимость считается той же функцией, что и при создании бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, option=%d, therapist=%v, date=%s",
		req.ServiceID, req.ServiceOptionID, req.TherapistID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := domain.DateOf(req.Date)

	// 3. Получаем вариант услуги и проверяем принадлежность услуге
	option, err := uc.catalogRepo.GetServiceOption(ctx, req.ServiceOptionID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceOptionNotFound) {
			uc.logger.Warn("GetAvailableSlots: service option id=%d not found", req.ServiceOptionID)
			return nil, ErrServiceOptionNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service option id=%d: %v", req.ServiceOptionID, err)
		return nil, fmt.Errorf("%w: failed to get service option: %v", ErrInternal, err)
	}
	if !option.IsActive || option.ServiceID != req.ServiceID {
		uc.logger.Warn("GetAvailableSlots: option id=%d is inactive or not part of service id=%d",
			option.ID, req.ServiceID)
		return nil, ErrServiceOptionNotFound
	}

	// 4. Проверяем терапевта, если он указан
	if req.TherapistID != nil {
		therapist, err := uc.catalogRepo.GetTherapist(ctx, *req.TherapistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTherapistNotFound) {
				uc.logger.Warn("GetAvailableSlots: therapist id=%d not found", *req.TherapistID)
				return nil, ErrTherapistNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get therapist id=%d: %v", *req.TherapistID, err)
			return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
		}
		if !therapist.IsActive {
			uc.logger.Warn("GetAvailableSlots: therapist id=%d is inactive", therapist.ID)
			return nil, ErrTherapistNotFound
		}
	}

	// 5. Собираем снимок правил, расписаний и бронирований на дату
	snapshot, err := uc.loadSnapshot(ctx, option.ID, req.TherapistID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load data: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Перечисляем слоты с остатком вместимости
	slots, err := snapshot.AvailableSlots(option.ServiceID, option.ID, req.TherapistID, option.DurationMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRuleConfiguration) {
			uc.logger.Error("GetAvailableSlots: %v", err)
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 7. Убираем уже начавшиеся слоты
	slots = dropStarted(slots, date, uc.location, now)

	uc.logger.Info("GetAvailableSlots: found %d slots for option=%d on %s",
		len(slots), option.ID, date.Format(domain.DateFormat))

	return &Response{
		Date:            date,
		ServiceID:       option.ServiceID,
		ServiceOptionID: option.ID,
		TherapistID:     req.TherapistID,
		DurationMinutes: option.DurationMinutes,
		Slots:           toSlots(slots),
	}, nil
}

// loadSnapshot читает правила, блоки расписания и бронирования варианта за сутки клиники
// в одной READ ONLY транзакции, чтобы снимок был согласованным
func (uc *UseCase) loadSnapshot(ctx context.Context, optionID int64, therapistID *int64, date time.Time) (*scheduling.Snapshot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var (
		rules    []*domain.AvailabilityRule
		blocks   []*domain.ScheduleBlock
		bookings []*domain.Booking
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		rules, err = uc.ruleRepo.List(txCtx, ruleRepo.Filter{ServiceOptionID: &optionID})
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		blocks, err = uc.scheduleRepo.ListByTherapists(txCtx, scheduling.RuleTherapists(rules, therapistID))
		if err != nil {
			return fmt.Errorf("failed to list schedule blocks: %w", err)
		}

		bookings, err = uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ServiceOptionID: &optionID,
			From:            &dayStart,
			To:              &dayEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scheduling.NewSnapshot(date, uc.location,
		ptr.Values(rules), ptr.Values(blocks), ptr.Values(bookings)), nil
}

func toSlots(in []domain.Slot) []Slot {
	out := make([]Slot, 0, len(in))
	for _, s := range in {
		out = append(out, Slot{
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Remaining:    s.Remaining,
			BookingLimit: s.BookingLimit,
		})
	}
	return out
}
