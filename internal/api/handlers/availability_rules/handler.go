package availability_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

const (
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFilter      = "некорректные параметры фильтра"
	msgRuleNotFound       = "правило не найдено"
	msgOptionNotFound     = "вариант услуги не найден"
	msgTherapistNotFound  = "терапевт не найден"
)

// Handler управление правилами доступности (персонал клиники)
type Handler struct {
	service RuleService
	logger  Logger
}

func NewHandler(service RuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/availability-rules
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, err, "POST /availability-rules", 0)
		return
	}

	h.logger.Info("POST /availability-rules - Rule created: rule_id=%d, option_id=%d", rule.ID, rule.ServiceOptionID)
	handlers.RespondJSON(w, http.StatusCreated, rule)
}

// Get GET /api/v1/availability-rules/{ruleId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.ruleID(w, r, "GET /availability-rules/{id}")
	if !ok {
		return
	}

	rule, err := h.service.GetByID(r.Context(), ruleID)
	if err != nil {
		h.respondError(w, err, "GET /availability-rules/{id}", ruleID)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rule)
}

// List GET /api/v1/availability-rules?serviceOptionId=&therapistId=&includeInactive=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	optionID, errOption := handlers.ParseOptionalID(q.Get("serviceOptionId"))
	therapistID, errTherapist := handlers.ParseOptionalID(q.Get("therapistId"))
	includeInactive := false
	var errFlag error
	if raw := q.Get("includeInactive"); raw != "" {
		includeInactive, errFlag = strconv.ParseBool(raw)
	}
	if err := errors.Join(errOption, errTherapist, errFlag); err != nil {
		h.logger.Warn("GET /availability-rules - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListRulesRequest{
		ServiceOptionID: optionID,
		TherapistID:     therapistID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.respondError(w, err, "GET /availability-rules", 0)
		return
	}

	h.logger.Info("GET /availability-rules - Rules retrieved: count=%d", len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PATCH /api/v1/availability-rules/{ruleId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.ruleID(w, r, "PATCH /availability-rules/{id}")
	if !ok {
		return
	}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /availability-rules/{id} - Invalid request body: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.Update(r.Context(), ruleID, &req)
	if err != nil {
		h.respondError(w, err, "PATCH /availability-rules/{id}", ruleID)
		return
	}

	h.logger.Info("PATCH /availability-rules/{id} - Rule updated: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, rule)
}

// Deactivate POST /api/v1/availability-rules/{ruleId}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.ruleID(w, r, "POST /availability-rules/{id}/deactivate")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), ruleID); err != nil {
		h.respondError(w, err, "POST /availability-rules/{id}/deactivate", ruleID)
		return
	}

	h.logger.Info("POST /availability-rules/{id}/deactivate - Rule deactivated: rule_id=%d", ruleID)
	w.WriteHeader(http.StatusNoContent)
}

// Delete DELETE /api/v1/availability-rules/{ruleId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.ruleID(w, r, "DELETE /availability-rules/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ruleID); err != nil {
		h.respondError(w, err, "DELETE /availability-rules/{id}", ruleID)
		return
	}

	h.logger.Info("DELETE /availability-rules/{id} - Rule deleted: rule_id=%d", ruleID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ruleID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.ParseID(mux.Vars(r)["ruleId"])
	if err != nil {
		h.logger.Warn("%s - Invalid rule ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, route string, ruleID int64) {
	switch {
	case errors.Is(err, rules.ErrRuleNotFound):
		h.logger.Warn("%s - Rule not found: rule_id=%d", route, ruleID)
		handlers.RespondNotFound(w, msgRuleNotFound)

	case errors.Is(err, rules.ErrServiceOptionNotFound):
		h.logger.Warn("%s - Service option not found: %v", route, err)
		handlers.RespondNotFound(w, msgOptionNotFound)

	case errors.Is(err, rules.ErrTherapistNotFound):
		h.logger.Warn("%s - Therapist not found: %v", route, err)
		handlers.RespondNotFound(w, msgTherapistNotFound)

	case errors.Is(err, rules.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("%s - Rejected: rule_id=%d, error=%v", route, ruleID, err)
			return
		}
		h.logger.Error("%s - Failed: rule_id=%d, error=%v", route, ruleID, err)
		handlers.RespondInternalError(w)
	}
}
