package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidOptionID    = "некорректный ID варианта услуги"
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgOptionNotFound     = "вариант услуги не найден"
	msgTherapistNotFound  = "терапевт не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/options/{optionId}/available-slots
// Query params: date (required, YYYY-MM-DD), therapistId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := handlers.ParseID(vars["serviceId"])
	if err != nil {
		h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	optionID, err := handlers.ParseID(vars["optionId"])
	if err != nil {
		h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Invalid option ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOptionID)
		return
	}

	therapistID, err := handlers.ParseOptionalID(r.URL.Query().Get("therapistId"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ServiceID:       serviceID,
		ServiceOptionID: optionID,
		TherapistID:     therapistID,
		Date:            date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceOptionNotFound):
			h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Option not found: service_id=%d, option_id=%d",
				serviceID, optionID)
			handlers.RespondNotFound(w, msgOptionNotFound)

		case errors.Is(err, getAvailableSlots.ErrTherapistNotFound):
			h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Therapist not found: therapist_id=%v", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("GET /services/{id}/options/{id}/available-slots - Rejected: option_id=%d, error=%v", optionID, err)
				return
			}
			h.logger.Error("GET /services/{id}/options/{id}/available-slots - Failed to get slots: option_id=%d, date=%s, error=%v",
				optionID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/options/{id}/available-slots - Slots retrieved successfully: option_id=%d, date=%s, slots_count=%d",
		optionID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
