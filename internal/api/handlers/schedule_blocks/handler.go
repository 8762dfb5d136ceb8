package schedule_blocks

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

const (
	msgInvalidBlockID     = "некорректный ID блока расписания"
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBlockNotFound      = "блок расписания не найден"
	msgTherapistNotFound  = "терапевт не найден"
)

// Handler управление рабочими часами и отгулами терапевтов
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/schedule-blocks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, err, "POST /schedule-blocks")
		return
	}

	h.logger.Info("POST /schedule-blocks - Block created: block_id=%d, therapist_id=%d, type=%s",
		block.ID, block.TherapistID, block.Type)
	handlers.RespondJSON(w, http.StatusCreated, block)
}

// ListByTherapist GET /api/v1/therapists/{therapistId}/schedule-blocks
func (h *Handler) ListByTherapist(w http.ResponseWriter, r *http.Request) {
	therapistID, err := handlers.ParseID(mux.Vars(r)["therapistId"])
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/schedule-blocks - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	result, err := h.service.ListByTherapist(r.Context(), therapistID)
	if err != nil {
		h.respondError(w, err, "GET /therapists/{id}/schedule-blocks")
		return
	}

	h.logger.Info("GET /therapists/{id}/schedule-blocks - Blocks retrieved: therapist_id=%d, count=%d",
		therapistID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Deactivate DELETE /api/v1/schedule-blocks/{blockId}
// Блок не удаляется физически, а деактивируется
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.ParseID(mux.Vars(r)["blockId"])
	if err != nil {
		h.logger.Warn("DELETE /schedule-blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.Deactivate(r.Context(), blockID); err != nil {
		h.respondError(w, err, "DELETE /schedule-blocks/{id}")
		return
	}

	h.logger.Info("DELETE /schedule-blocks/{id} - Block deactivated: block_id=%d", blockID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, route string) {
	switch {
	case errors.Is(err, schedules.ErrBlockNotFound):
		h.logger.Warn("%s - Block not found: %v", route, err)
		handlers.RespondNotFound(w, msgBlockNotFound)

	case errors.Is(err, schedules.ErrTherapistNotFound):
		h.logger.Warn("%s - Therapist not found: %v", route, err)
		handlers.RespondNotFound(w, msgTherapistNotFound)

	default:
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("%s - Rejected: %v", route, err)
			return
		}
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
