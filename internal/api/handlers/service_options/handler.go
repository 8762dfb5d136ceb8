package service_options

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/catalog/models"
)

const (
	msgInvalidOptionID    = "некорректный ID варианта услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPrice       = "некорректная цена"
	msgOptionNotFound     = "вариант услуги не найден"
)

// Handler чтение варианта услуги и изменение его цены
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/service-options/{optionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	optionID, err := handlers.ParseID(mux.Vars(r)["optionId"])
	if err != nil {
		h.logger.Warn("GET /service-options/{id} - Invalid option ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOptionID)
		return
	}

	option, err := h.service.GetServiceOption(r.Context(), optionID)
	if err != nil {
		h.respondError(w, err, "GET /service-options/{id}")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, option)
}

// UpdatePrice PATCH /api/v1/service-options/{optionId}/price
// Цена уже созданных бронирований не меняется
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	optionID, err := handlers.ParseID(mux.Vars(r)["optionId"])
	if err != nil {
		h.logger.Warn("PATCH /service-options/{id}/price - Invalid option ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOptionID)
		return
	}

	var req models.UpdatePriceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /service-options/{id}/price - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	option, err := h.service.UpdateOptionPrice(r.Context(), optionID, &req)
	if err != nil {
		h.respondError(w, err, "PATCH /service-options/{id}/price")
		return
	}

	h.logger.Info("PATCH /service-options/{id}/price - Price updated: option_id=%d, price=%s", option.ID, option.Price)
	handlers.RespondJSON(w, http.StatusOK, option)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, route string) {
	switch {
	case errors.Is(err, catalog.ErrInvalidPrice):
		h.logger.Warn("%s - Invalid price: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidPrice)

	case errors.Is(err, catalog.ErrServiceOptionNotFound):
		h.logger.Warn("%s - Option not found: %v", route, err)
		handlers.RespondNotFound(w, msgOptionNotFound)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
