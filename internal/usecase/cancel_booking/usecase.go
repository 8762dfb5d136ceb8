package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// UseCase use case отмены бронирования с расчетом возврата
type UseCase struct {
	bookingRepo  BookingRepository
	payments     PaymentGateway
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	payments PaymentGateway,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		payments:     payments,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отменяет бронирование.
// Статус и сумма возврата фиксируются в транзакции; деньги возвращаются после фиксации.
// Повторная отмена возвращает domain.ErrAlreadyCancelled и ничего не возвращает повторно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, initiator=%s", req.BookingID, req.Initiator)

	// 1. Валидация входных данных
	cancelStatus, ok := req.Initiator.Status()
	if !ok {
		return nil, fmt.Errorf("%w: unknown initiator %q", ErrInvalidInput, req.Initiator)
	}
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		booking *domain.Booking
		quote   *scheduling.RefundQuote
	)

	// 3. Переход статуса и расчет возврата в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем бронирование с блокировкой строки
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		// 3.2. Проверяем конечный автомат
		if current.Status.IsCancelled() {
			return fmt.Errorf("%w: booking id=%d is %s", domain.ErrAlreadyCancelled, current.ID, current.Status)
		}
		if !current.Status.CanTransitionTo(cancelStatus) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, cancelStatus)
		}

		// 3.3. Возврат считается только для оплаченных бронирований; цена не меняется
		paymentStatus := current.PaymentStatus
		var refund *money.Cents
		if current.IsPaid() {
			q := scheduling.CalculateRefund(current.PriceAtBooking, current.StartTime, now)
			if q.Flagged {
				uc.logger.Warn("CancelBooking: refund for booking id=%d flagged (%s), lead=%s",
					current.ID, q.FlagCause, q.LeadTime)
			}
			quote = &q
			refund = &q.Amount
			if q.Amount > 0 {
				paymentStatus = domain.PaymentRefundPending
			}
		}

		// 3.4. Сохраняем отмену
		if err := uc.bookingRepo.Cancel(txCtx, current.ID, cancelStatus, req.Reason, now, paymentStatus, refund); err != nil {
			return err
		}

		current.Status = cancelStatus
		current.PaymentStatus = paymentStatus
		current.RefundAmount = refund
		current.CancellationReason = req.Reason
		current.CancelledAt = &now
		booking = current
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrInvalidTransition):
			uc.logger.Warn("CancelBooking: %v", err)
			return nil, err
		}
		uc.logger.Error("CancelBooking: transaction failed for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.Cancellation(string(req.Initiator))
	uc.logger.Info("CancelBooking: booking id=%d is now %s", booking.ID, booking.Status)

	resp := &Response{
		BookingID:   booking.ID,
		Status:      string(booking.Status),
		CancelledAt: now,
	}

	// 4. Возврат через платежный шлюз вне транзакции
	if quote != nil {
		uc.metrics.Refund(string(quote.Tier), quote.Amount.Int64())
		resp.Refund = &RefundInfo{
			Amount:  quote.Amount,
			Percent: quote.Percent,
			Tier:    string(quote.Tier),
			Flagged: quote.Flagged,
		}
		if booking.PaymentStatus == domain.PaymentRefundPending {
			uc.executeRefund(ctx, booking, resp.Refund)
		}
	}
	resp.PaymentStatus = string(booking.PaymentStatus)

	// 5. Уведомление после фиксации
	if err := uc.notifier.BookingCancelled(ctx, booking); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish event for booking id=%d: %v", booking.ID, err)
	}

	return resp, nil
}

// executeRefund отправляет возврат; при ошибке бронирование остается в RefundPending для операторов
func (uc *UseCase) executeRefund(ctx context.Context, booking *domain.Booking, info *RefundInfo) {
	if booking.PaymentRef == nil {
		uc.logger.Error("CancelBooking: booking id=%d is paid but has no payment ref, refund left pending", booking.ID)
		return
	}

	refund, err := uc.payments.Refund(ctx, payment.RefundRequest{
		BookingID:  booking.ID,
		PaymentRef: *booking.PaymentRef,
		Amount:     info.Amount,
	})
	if err != nil {
		uc.logger.Error("CancelBooking: refund of %s for booking id=%d failed, left pending: %v",
			info.Amount.Major(), booking.ID, err)
		return
	}

	if err := uc.bookingRepo.UpdatePayment(ctx, booking.ID, domain.PaymentRefunded, nil); err != nil {
		uc.logger.Error("CancelBooking: refund %s sent but status not saved for booking id=%d: %v",
			refund.ID, booking.ID, err)
		return
	}

	booking.PaymentStatus = domain.PaymentRefunded
	info.Executed = true
	info.RefundID = refund.ID
	uc.logger.Info("CancelBooking: refunded %s for booking id=%d, refund=%s", info.Amount.Major(), booking.ID, refund.ID)
}
