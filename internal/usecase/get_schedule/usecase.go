package get_schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case для построения дневного, недельного и сводного расписания.
// Каждый день считается независимо из своего снимка данных.
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	therapistRepo TherapistRepository
	txManager     TransactionManager
	composer      *scheduling.Composer
	metrics       Metrics
	settings      Settings
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	therapistRepo TherapistRepository,
	txManager TransactionManager,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		therapistRepo: therapistRepo,
		txManager:     txManager,
		composer:      scheduling.NewComposer(settings.MaxBookingDuration),
		metrics:       metrics,
		settings:      settings,
		logger:        logger,
	}
}

// Daily возвращает расписание терапевта на одну дату
func (uc *UseCase) Daily(ctx context.Context, req *DailyRequest) (*domain.DailySchedule, error) {
	uc.logger.Info("GetSchedule.Daily: therapist=%d, date=%s", req.TherapistID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateTherapistDate(req.TherapistID, req.Date); err != nil {
		uc.logger.Warn("GetSchedule.Daily: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем терапевта
	therapist, err := uc.getTherapist(ctx, req.TherapistID)
	if err != nil {
		return nil, err
	}

	// 3. Читаем блоки и бронирования одним снимком и собираем день
	date := domain.DateOf(req.Date)
	days, err := uc.composeDays(ctx, []*domain.Therapist{therapist}, []time.Time{date}, &therapist.ID)
	if err != nil {
		return nil, err
	}

	return &days[0], nil
}

// Weekly возвращает расписание терапевта на семь дней подряд
func (uc *UseCase) Weekly(ctx context.Context, req *WeeklyRequest) (*domain.WeeklySchedule, error) {
	uc.logger.Info("GetSchedule.Weekly: therapist=%d, start=%s", req.TherapistID, req.StartDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateTherapistDate(req.TherapistID, req.StartDate); err != nil {
		uc.logger.Warn("GetSchedule.Weekly: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем терапевта
	therapist, err := uc.getTherapist(ctx, req.TherapistID)
	if err != nil {
		return nil, err
	}

	// 3. Собираем каждый из семи дней независимо
	start := domain.DateOf(req.StartDate)
	dates := make([]time.Time, 0, domain.DaysInWeek)
	for i := 0; i < domain.DaysInWeek; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}

	days, err := uc.composeDays(ctx, []*domain.Therapist{therapist}, dates, &therapist.ID)
	if err != nil {
		return nil, err
	}

	// 4. Агрегируем итоги периода
	return &domain.WeeklySchedule{
		TherapistID: therapist.ID,
		StartDate:   start,
		Days:        days,
		Summary:     scheduling.Summarize(days),
	}, nil
}

// Overview возвращает расписание всех активных терапевтов на дату
func (uc *UseCase) Overview(ctx context.Context, req *OverviewRequest) (*domain.ScheduleOverview, error) {
	uc.logger.Info("GetSchedule.Overview: date=%s", req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := domain.DateOf(req.Date)

	// 2. Получаем активных терапевтов
	therapists, err := uc.therapistRepo.ListActiveTherapists(ctx)
	if err != nil {
		uc.logger.Error("GetSchedule.Overview: failed to list therapists: %v", err)
		return nil, fmt.Errorf("%w: failed to list therapists: %v", ErrInternal, err)
	}

	overview := &domain.ScheduleOverview{
		Date:       date,
		Therapists: []domain.DailySchedule{},
	}
	if len(therapists) == 0 {
		return overview, nil
	}

	// 3. Собираем день каждого терапевта из общего снимка
	days, err := uc.composeDays(ctx, therapists, []time.Time{date}, nil)
	if err != nil {
		return nil, err
	}

	overview.Therapists = days
	overview.Summary = scheduling.Summarize(days)
	return overview, nil
}

func (uc *UseCase) getTherapist(ctx context.Context, id int64) (*domain.Therapist, error) {
	therapist, err := uc.therapistRepo.GetTherapist(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTherapistNotFound) {
			uc.logger.Warn("GetSchedule: therapist id=%d not found", id)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("GetSchedule: failed to get therapist id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}
	return therapist, nil
}

// composeDays читает блоки и бронирования за весь период в одной READ ONLY транзакции
// и строит расписание для каждой пары (дата, терапевт). Порядок: по датам, затем по терапевтам.
func (uc *UseCase) composeDays(
	ctx context.Context,
	therapists []*domain.Therapist,
	dates []time.Time,
	therapistFilter *int64,
) ([]domain.DailySchedule, error) {
	ids := make([]int64, 0, len(therapists))
	for _, t := range therapists {
		ids = append(ids, t.ID)
	}

	first := dates[0]
	periodStart := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, uc.settings.Location)
	// Лишние сутки покрывают ночные смены, уходящие за полночь последнего дня
	periodEnd := periodStart.AddDate(0, 0, len(dates)+1)

	var (
		blocks   []*domain.ScheduleBlock
		bookings []*domain.Booking
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		blocks, err = uc.scheduleRepo.ListByTherapists(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to list schedule blocks: %w", err)
		}

		bookings, err = uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			TherapistID: therapistFilter,
			From:        &periodStart,
			To:          &periodEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("GetSchedule: failed to load schedule data: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	blockValues := ptr.Values(blocks)
	bookingValues := ptr.Values(bookings)

	days := make([]domain.DailySchedule, 0, len(dates)*len(therapists))
	for _, date := range dates {
		snapshot := scheduling.NewSnapshot(date, uc.settings.Location, nil, blockValues, bookingValues)
		for _, t := range therapists {
			day := uc.composer.Daily(snapshot, *t)
			uc.reportWarnings(day)
			days = append(days, day)
		}
	}
	return days, nil
}

// reportWarnings логирует и считает проблемы в данных; чтение при этом не падает
func (uc *UseCase) reportWarnings(day domain.DailySchedule) {
	for _, w := range day.Warnings {
		uc.logger.Warn("GetSchedule: therapist=%d date=%s %s: %s",
			day.TherapistID, day.Date.Format(domain.DateFormat), w.Code, w.Message)

		switch w.Code {
		case domain.WarningCorruptBookingDuration:
			uc.metrics.CorruptBookingDuration(strconv.FormatInt(day.TherapistID, 10))
		case domain.WarningOvernightWrap:
			uc.metrics.OvernightWrap("schedule_block")
		}
	}
}
