package get_refund_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getRefundQuote "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_refund_quote"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
)

type Handler struct {
	useCase GetRefundQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetRefundQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/refunds/quote
// Расчет без побочных эффектов: бронирование не меняется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var body RefundQuoteRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /refunds/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req, err := body.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /refunds/quote - Invalid request data: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getRefundQuote.ErrBookingNotFound):
			h.logger.Warn("POST /refunds/quote - Booking not found: booking_id=%v", body.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, getRefundQuote.ErrInvalidInput):
			h.logger.Warn("POST /refunds/quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /refunds/quote - Failed to quote refund: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Flagged {
		h.logger.Warn("POST /refunds/quote - Quote flagged: cause=%s", result.FlagCause)
	}
	h.logger.Info("POST /refunds/quote - Quote calculated: tier=%s, percent=%d, amount=%s",
		result.Tier, result.Percent, result.Amount.Major())
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
