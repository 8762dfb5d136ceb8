package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/slotlock"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	ruleRepo     RuleRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	slotRows     SlotRowLocker
	slotLocker   SlotLocker
	txManager    TransactionManager
	payments     PaymentGateway
	notifier     Notifier
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ruleRepo RuleRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	slotRows SlotRowLocker,
	slotLocker SlotLocker,
	txManager TransactionManager,
	payments PaymentGateway,
	notifier Notifier,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		ruleRepo:     ruleRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		slotRows:     slotRows,
		slotLocker:   slotLocker,
		txManager:    txManager,
		payments:     payments,
		notifier:     notifier,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка вместимости и вставка идут в одной сериализуемой транзакции под блокировкой слота;
// оплата и уведомления выполняются только после фиксации.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, option=%d, therapist=%v, date=%s, time=%s",
		req.ClientID, req.ServiceOptionID, req.TherapistID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем вариант услуги, клиента и терапевта
	option, err := uc.catalogRepo.GetServiceOption(ctx, req.ServiceOptionID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceOptionNotFound) {
			uc.logger.Warn("CreateBooking: service option id=%d not found", req.ServiceOptionID)
			return nil, ErrServiceOptionNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service option id=%d: %v", req.ServiceOptionID, err)
		return nil, fmt.Errorf("%w: failed to get service option: %v", ErrInternal, err)
	}
	if !option.IsActive {
		uc.logger.Warn("CreateBooking: service option id=%d is inactive", option.ID)
		return nil, ErrServiceOptionNotFound
	}

	client, err := uc.catalogRepo.GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	if req.TherapistID != nil {
		therapist, err := uc.catalogRepo.GetTherapist(ctx, *req.TherapistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTherapistNotFound) {
				uc.logger.Warn("CreateBooking: therapist id=%d not found", *req.TherapistID)
				return nil, ErrTherapistNotFound
			}
			uc.logger.Error("CreateBooking: failed to get therapist id=%d: %v", *req.TherapistID, err)
			return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
		}
		if !therapist.IsActive {
			uc.logger.Warn("CreateBooking: therapist id=%d is inactive", therapist.ID)
			return nil, ErrTherapistNotFound
		}
	}

	// 4. Вычисляем абсолютное время начала и конца сеанса
	date := domain.DateOf(req.Date)
	startAt, err := req.StartTime.On(date, uc.settings.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !startAt.After(now) {
		uc.logger.Warn("CreateBooking: slot %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrSlotInPast
	}
	endAt := startAt.Add(time.Duration(option.DurationMinutes) * time.Minute)

	query := domain.SlotQuery{
		ServiceID:       option.ServiceID,
		ServiceOptionID: option.ID,
		TherapistID:     req.TherapistID,
		Date:            date,
		StartTime:       req.StartTime,
	}

	// 5. Берем блокировку слота до открытия транзакции
	lockCtx, cancelLock := ctx, context.CancelFunc(func() {})
	if uc.settings.LockWaitTimeout > 0 {
		lockCtx, cancelLock = context.WithTimeout(ctx, uc.settings.LockWaitTimeout)
	}
	lockStarted := time.Now()
	unlock, err := uc.slotLocker.Lock(lockCtx, query.LockKey())
	cancelLock()
	uc.metrics.SlotLockWaited(uc.slotLocker.Backend(), time.Since(lockStarted))
	if err != nil {
		uc.metrics.BookingAttempt(outcomeTransient)
		uc.logger.Warn("CreateBooking: failed to lock slot %s: %v", query.LockKey(), err)
		if errors.Is(err, slotlock.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
		return nil, fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
	}
	defer unlock()

	var (
		result    *domain.Booking
		remaining int
	)

	// 6. Проверка вместимости и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Блокируем синтетическую строку слота (FOR UPDATE)
		if err := uc.slotRows.Lock(txCtx, query.LockKey()); err != nil {
			return fmt.Errorf("failed to lock slot row: %w", err)
		}

		// 6.2. Снимок правил, расписаний и бронирований на дату
		snapshot, err := uc.loadSnapshot(txCtx, query, date)
		if err != nil {
			return err
		}

		// 6.3. Проверяем вместимость (та же функция, что и для списка слотов)
		capacity, err := snapshot.CheckBookable(query, option.DurationMinutes)
		if err != nil {
			return err
		}
		if !capacity.IsAvailable {
			uc.logger.Warn("CreateBooking: slot %s is full, %d/%d taken",
				query.LockKey(), capacity.Booked, capacity.BookingLimit)
			return fmt.Errorf("%w: %d/%d taken", domain.ErrSlotFull, capacity.Booked, capacity.BookingLimit)
		}

		// 6.4. Мягкий дневной лимит терапевта
		if req.TherapistID != nil && uc.settings.TherapistDailySoftLimit > 0 {
			count := snapshot.TherapistBookingsCount(*req.TherapistID)
			if count >= uc.settings.TherapistDailySoftLimit {
				uc.logger.Warn("CreateBooking: therapist id=%d already has %d bookings on %s",
					*req.TherapistID, count, date.Format(domain.DateFormat))
				return fmt.Errorf("%w: %d bookings on %s", domain.ErrTherapistOverbooked, count, date.Format(domain.DateFormat))
			}
		}

		uc.logger.Info("CreateBooking: slot available, %d/%d taken", capacity.Booked, capacity.BookingLimit)

		// 6.5. Создаем бронирование; цена фиксируется на момент создания
		booking := &domain.Booking{
			ClientID:        client.ID,
			ServiceID:       option.ServiceID,
			ServiceOptionID: option.ID,
			TherapistID:     req.TherapistID,
			StartTime:       startAt.UTC(),
			EndTime:         endAt.UTC(),
			Status:          domain.StatusPendingConfirmation,
			PaymentStatus:   domain.PaymentUnpaid,
			PriceAtBooking:  option.Price,
			ClientName:      client.Name,
			ServiceName:     option.DisplayName(),
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		result = created
		remaining = capacity.Remaining - 1
		return nil
	})
	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 7. Оплата вне транзакции; при ошибке компенсирующая отмена
	if err := uc.settlePayment(ctx, req, result, now); err != nil {
		uc.metrics.BookingAttempt(outcomePaymentFailed)
		return nil, err
	}

	uc.metrics.BookingAttempt(outcomeCreated)

	// 8. Уведомление после фиксации
	if err := uc.notifier.BookingCreated(ctx, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return toResponse(result, max(remaining, 0)), nil
}

// loadSnapshot читает все, что нужно для проверки слота, в текущей транзакции
func (uc *UseCase) loadSnapshot(ctx context.Context, q domain.SlotQuery, date time.Time) (*scheduling.Snapshot, error) {
	rules, err := uc.ruleRepo.List(ctx, ruleRepo.Filter{ServiceOptionID: &q.ServiceOptionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	blocks, err := uc.scheduleRepo.ListByTherapists(ctx, scheduling.RuleTherapists(rules, q.TherapistID))
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule blocks: %w", err)
	}

	// Бронирования за сутки клиники; внутри транзакции строки блокируются
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.settings.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		ServiceOptionID: &q.ServiceOptionID,
		From:            &dayStart,
		To:              &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if q.TherapistID != nil && uc.settings.TherapistDailySoftLimit > 0 {
		therapistBookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
			TherapistID: q.TherapistID,
			From:        &dayStart,
			To:          &dayEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list therapist bookings: %w", err)
		}
		bookings = mergeBookings(bookings, therapistBookings)
	}

	return scheduling.NewSnapshot(date, uc.settings.Location,
		ptr.Values(rules), ptr.Values(blocks), ptr.Values(bookings)), nil
}

// mapTxError переводит ошибки транзакции в доменную таксономию и считает исход
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotNotOffered):
		uc.metrics.BookingAttempt(outcomeNotOffered)
		uc.logger.Warn("CreateBooking: %v", err)
		return err
	case errors.Is(err, domain.ErrSlotFull):
		uc.metrics.BookingAttempt(outcomeFull)
		return err
	case errors.Is(err, domain.ErrTherapistOverbooked):
		uc.metrics.BookingAttempt(outcomeOverbooked)
		return err
	case errors.Is(err, domain.ErrInvalidRuleConfiguration):
		uc.metrics.BookingAttempt(outcomeError)
		uc.logger.Error("CreateBooking: %v", err)
		return err
	case txmanager.IsRetryable(err):
		uc.metrics.BookingAttempt(outcomeConflict)
		uc.logger.Warn("CreateBooking: transaction conflict, caller should retry: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
	case errors.Is(err, txmanager.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		uc.metrics.BookingAttempt(outcomeTransient)
		uc.logger.Warn("CreateBooking: transaction timed out: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	uc.metrics.BookingAttempt(outcomeError)
	uc.logger.Error("CreateBooking: transaction failed: %v", err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// settlePayment проверяет или списывает оплату уже созданного бронирования
func (uc *UseCase) settlePayment(ctx context.Context, req *Request, booking *domain.Booking, now time.Time) error {
	if req.PaymentRef == nil && req.PaymentMethodID == nil {
		return nil
	}

	var (
		ref    string
		payErr error
	)
	if req.PaymentRef != nil {
		ref = *req.PaymentRef
		payErr = uc.payments.Verify(ctx, ref, booking.PriceAtBooking)
	} else {
		ref, payErr = uc.payments.Charge(ctx, payment.ChargeRequest{
			BookingID:       booking.ID,
			PaymentMethodID: *req.PaymentMethodID,
			Amount:          booking.PriceAtBooking,
			Description:     booking.ServiceName,
		})
	}

	if payErr == nil {
		if err := uc.bookingRepo.UpdatePayment(ctx, booking.ID, domain.PaymentPaid, &ref); err != nil {
			// Деньги получены, но статус не сохранен; бронирование остается в силе
			uc.logger.Error("CreateBooking: payment %s captured but not recorded for booking id=%d: %v", ref, booking.ID, err)
			return nil
		}
		booking.PaymentStatus = domain.PaymentPaid
		booking.PaymentRef = &ref
		uc.logger.Info("CreateBooking: booking id=%d paid, ref=%s", booking.ID, ref)
		return nil
	}

	// Компенсирующая отмена: слот освобождается, частичное состояние не остается
	uc.logger.Warn("CreateBooking: payment failed for booking id=%d, cancelling: %v", booking.ID, payErr)
	reason := domain.PaymentFailedReason
	cancelErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.bookingRepo.Cancel(txCtx, booking.ID, domain.StatusCancelledByStaff, &reason,
			now, domain.PaymentFailed, nil)
	})
	if cancelErr != nil {
		uc.logger.Error("CreateBooking: compensating cancellation failed for booking id=%d: %v", booking.ID, cancelErr)
		return fmt.Errorf("%w: payment failed and booking id=%d could not be released: %v", ErrInternal, booking.ID, cancelErr)
	}

	booking.Status = domain.StatusCancelledByStaff
	booking.PaymentStatus = domain.PaymentFailed
	booking.CancellationReason = &reason
	booking.CancelledAt = &now

	if err := uc.notifier.PaymentFailed(ctx, booking, payErr.Error()); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish payment failure for booking id=%d: %v", booking.ID, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, payErr)
}

// mergeBookings объединяет две выборки без дублей
func mergeBookings(a, b []*domain.Booking) []*domain.Booking {
	seen := make(map[int64]struct{}, len(a))
	for _, booking := range a {
		seen[booking.ID] = struct{}{}
	}
	for _, booking := range b {
		if _, ok := seen[booking.ID]; !ok {
			a = append(a, booking)
		}
	}
	return a
}

func toResponse(b *domain.Booking, remaining int) *Response {
	return &Response{
		ID:                b.ID,
		ClientID:          b.ClientID,
		ServiceID:         b.ServiceID,
		ServiceOptionID:   b.ServiceOptionID,
		TherapistID:       b.TherapistID,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		PriceAtBooking:    b.PriceAtBooking,
		PaymentRef:        b.PaymentRef,
		ClientName:        b.ClientName,
		ServiceName:       b.ServiceName,
		Notes:             b.Notes,
		RemainingCapacity: remaining,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
