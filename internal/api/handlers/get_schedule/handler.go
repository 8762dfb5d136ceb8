package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getSchedule "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_schedule"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTherapistNotFound  = "терапевт не найден"
)

type Handler struct {
	useCase GetScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleDaily GET /api/v1/therapists/{therapistId}/schedule/daily?date=YYYY-MM-DD
func (h *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	therapistID, date, ok := h.parseTherapistDate(w, r, "date", "GET /therapists/{id}/schedule/daily")
	if !ok {
		return
	}

	result, err := h.useCase.Daily(r.Context(), &getSchedule.DailyRequest{TherapistID: therapistID, Date: date})
	if err != nil {
		h.respondError(w, err, "GET /therapists/{id}/schedule/daily", therapistID)
		return
	}

	h.logger.Info("GET /therapists/{id}/schedule/daily - Schedule composed: therapist_id=%d, date=%s, bookings=%d",
		therapistID, handlers.FormatDate(date), len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, FromDailySchedule(result))
}

// HandleWeekly GET /api/v1/therapists/{therapistId}/schedule/weekly?startDate=YYYY-MM-DD
func (h *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	therapistID, startDate, ok := h.parseTherapistDate(w, r, "startDate", "GET /therapists/{id}/schedule/weekly")
	if !ok {
		return
	}

	result, err := h.useCase.Weekly(r.Context(), &getSchedule.WeeklyRequest{TherapistID: therapistID, StartDate: startDate})
	if err != nil {
		h.respondError(w, err, "GET /therapists/{id}/schedule/weekly", therapistID)
		return
	}

	h.logger.Info("GET /therapists/{id}/schedule/weekly - Schedule composed: therapist_id=%d, start_date=%s",
		therapistID, handlers.FormatDate(startDate))
	handlers.RespondJSON(w, http.StatusOK, FromWeeklySchedule(result))
}

// HandleOverview GET /api/v1/schedule/overview?date=YYYY-MM-DD
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r, "date", "GET /schedule/overview")
	if !ok {
		return
	}

	result, err := h.useCase.Overview(r.Context(), &getSchedule.OverviewRequest{Date: date})
	if err != nil {
		h.respondError(w, err, "GET /schedule/overview", 0)
		return
	}

	h.logger.Info("GET /schedule/overview - Overview composed: date=%s, therapists=%d",
		handlers.FormatDate(date), len(result.Therapists))
	handlers.RespondJSON(w, http.StatusOK, FromOverview(result))
}

func (h *Handler) parseTherapistDate(w http.ResponseWriter, r *http.Request, param, route string) (int64, time.Time, bool) {
	therapistID, err := handlers.ParseID(mux.Vars(r)["therapistId"])
	if err != nil {
		h.logger.Warn("%s - Invalid therapist ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return 0, time.Time{}, false
	}

	date, ok := h.parseDate(w, r, param, route)
	return therapistID, date, ok
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request, param, route string) (time.Time, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		h.logger.Warn("%s - Missing %s", route, param)
		handlers.RespondBadRequest(w, msgMissingDate)
		return time.Time{}, false
	}

	date, err := handlers.ParseDate(raw)
	if err != nil {
		h.logger.Warn("%s - Invalid date format: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, route string, therapistID int64) {
	switch {
	case errors.Is(err, getSchedule.ErrTherapistNotFound):
		h.logger.Warn("%s - Therapist not found: therapist_id=%d", route, therapistID)
		handlers.RespondNotFound(w, msgTherapistNotFound)

	case errors.Is(err, getSchedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("%s - Rejected: therapist_id=%d, error=%v", route, therapistID, err)
			return
		}
		h.logger.Error("%s - Failed to compose schedule: therapist_id=%d, error=%v", route, therapistID, err)
		handlers.RespondInternalError(w)
	}
}
