package get_refund_quote

import (
	"context"
	"errors"
	"fmt"
	"math"

	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

// UseCase use case предварительного расчета возврата при отмене
type UseCase struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute считает возврат по той же политике, что и отмена
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetRefundQuote: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	resp := &Response{
		BookingID:  req.BookingID,
		QuotedAt:   now,
		Refundable: true,
	}

	// 3. Определяем цену и время сеанса
	if req.BookingID != nil {
		booking, err := uc.bookingRepo.GetByID(ctx, *req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("GetRefundQuote: booking id=%d not found", *req.BookingID)
				return nil, ErrBookingNotFound
			}
			uc.logger.Error("GetRefundQuote: failed to get booking id=%d: %v", *req.BookingID, err)
			return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		resp.Price = booking.PriceAtBooking
		resp.ScheduledTime = booking.StartTime
		resp.Refundable = booking.IsPaid() && booking.IsActive()
	} else {
		resp.Price = *req.Price
		resp.ScheduledTime = *req.ScheduledTime
	}

	// 4. Применяем политику возврата
	quote := scheduling.CalculateRefund(resp.Price, resp.ScheduledTime, now)
	if quote.Flagged {
		uc.logger.Warn("GetRefundQuote: quote flagged (%s), price=%s, lead=%s",
			quote.FlagCause, resp.Price.Major(), quote.LeadTime)
	}

	resp.Amount = quote.Amount
	resp.Percent = quote.Percent
	resp.Tier = string(quote.Tier)
	resp.HoursUntil = math.Round(quote.LeadTime.Hours()*100) / 100
	resp.Flagged = quote.Flagged
	resp.FlagCause = quote.FlagCause
	resp.ScheduledTime = resp.ScheduledTime.UTC()

	if !resp.Refundable {
		resp.Amount = 0
	}

	uc.logger.Info("GetRefundQuote: price=%s, hours=%.2f, tier=%s, amount=%s",
		resp.Price.Major(), resp.HoursUntil, resp.Tier, resp.Amount.Major())

	return resp, nil
}
