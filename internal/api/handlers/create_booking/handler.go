package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgOptionNotFound     = "вариант услуги не найден"
	msgTherapistNotFound  = "терапевт не найден"
	msgClientNotFound     = "клиент не найден"
	msgSlotInPast         = "выбранный слот уже начался"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in the past: option_id=%d, date=%s, time=%s",
				req.ServiceOptionID, req.Date, req.StartTime)
			handlers.RespondUnprocessable(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrServiceOptionNotFound):
			h.logger.Warn("POST /bookings - Service option not found: option_id=%d", req.ServiceOptionID)
			handlers.RespondNotFound(w, msgOptionNotFound)

		case errors.Is(err, createBooking.ErrTherapistNotFound):
			h.logger.Warn("POST /bookings - Therapist not found: therapist_id=%v", req.TherapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("POST /bookings - Rejected: client_id=%d, option_id=%d, error=%v",
					req.ClientID, req.ServiceOptionID, err)
				return
			}
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, option_id=%d, error=%v",
				req.ClientID, req.ServiceOptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, option_id=%d",
		result.ID, req.ClientID, req.ServiceOptionID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
