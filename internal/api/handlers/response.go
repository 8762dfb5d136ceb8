package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Максимальный размер тела запроса
const maxBodyBytes = 1 << 20

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DecodeJSON читает тело запроса; неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// Общие сообщения для ошибок ядра расписания
const (
	msgSlotNotOffered      = "слот не предлагается для выбранной услуги"
	msgSlotFull            = "в выбранном слоте нет свободных мест"
	msgTherapistOverbooked = "у терапевта исчерпан дневной лимит сеансов"
	msgConflict            = "конкурирующий запрос занял слот, повторите попытку"
	msgTransient           = "сервис временно перегружен, повторите попытку"
	msgInvalidTransition   = "недопустимая смена статуса бронирования"
	msgAlreadyCancelled    = "бронирование уже отменено"
	msgPaymentFailed       = "оплата не прошла, бронирование отменено"
	msgInvalidRule         = "некорректная конфигурация правила"
	msgInvalidBlock        = "некорректный блок расписания"
)

// RespondDomainError отвечает на ошибки доменной таксономии.
// Возвращает false, если ошибка к ней не относится.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrSlotNotOffered):
		RespondUnprocessable(w, msgSlotNotOffered)
	case errors.Is(err, domain.ErrInvalidRuleConfiguration):
		RespondUnprocessable(w, msgInvalidRule)
	case errors.Is(err, domain.ErrInvalidScheduleBlock):
		RespondUnprocessable(w, msgInvalidBlock)
	case errors.Is(err, domain.ErrSlotFull):
		RespondConflict(w, msgSlotFull)
	case errors.Is(err, domain.ErrTherapistOverbooked):
		RespondConflict(w, msgTherapistOverbooked)
	case errors.Is(err, domain.ErrTransactionConflict):
		RespondConflict(w, msgConflict)
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondConflict(w, msgInvalidTransition)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		RespondConflict(w, msgAlreadyCancelled)
	case errors.Is(err, domain.ErrPaymentFailed):
		RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)
	case errors.Is(err, domain.ErrTransient):
		w.Header().Set("Retry-After", "1")
		RespondError(w, http.StatusServiceUnavailable, msgTransient)
	default:
		return false
	}
	return true
}

// ParseID разбирает положительный идентификатор из пути или query
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// ParseOptionalID разбирает необязательный идентификатор; пустая строка дает nil
func ParseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func ParseDate(raw string) (time.Time, error) {
	return time.Parse(domain.DateFormat, raw)
}

func FormatDate(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func FormatTime(ts types.TimeString) string {
	return ts.String()
}

func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
