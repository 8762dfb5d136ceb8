package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// CreateRuleRequest запрос на создание правила доступности
// Ровно одно из DayOfWeek и SpecificDate должно быть задано
type CreateRuleRequest struct {
	ServiceOptionID int64   `json:"serviceOptionId"`
	TherapistID     *int64  `json:"therapistId,omitempty"`  // NULL = любой терапевт
	DayOfWeek       *int    `json:"dayOfWeek,omitempty"`    // 0 = воскресенье
	SpecificDate    *string `json:"specificDate,omitempty"` // YYYY-MM-DD
	StartTime       string  `json:"startTime"`              // HH:MM
	BookingLimit    int     `json:"bookingLimit"`
}

// UpdateRuleRequest запрос на обновление правила
// Все поля опциональны - обновляются только переданные значения.
// Чтобы сменить селектор дня, нужно передать DayOfWeek или SpecificDate;
// переданный селектор заменяет прежний целиком.
type UpdateRuleRequest struct {
	TherapistID  *int64  `json:"therapistId,omitempty"`
	DayOfWeek    *int    `json:"dayOfWeek,omitempty"`
	SpecificDate *string `json:"specificDate,omitempty"`
	StartTime    *string `json:"startTime,omitempty"`
	BookingLimit *int    `json:"bookingLimit,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// ListRulesRequest фильтр списка правил
type ListRulesRequest struct {
	ServiceOptionID *int64
	TherapistID     *int64
	IncludeInactive bool
}

// Response модели

// RuleResponse ответ с данными правила
type RuleResponse struct {
	ID              int64     `json:"id"`
	ServiceID       int64     `json:"serviceId"`
	ServiceOptionID int64     `json:"serviceOptionId"`
	TherapistID     *int64    `json:"therapistId,omitempty"`
	DayOfWeek       *int      `json:"dayOfWeek,omitempty"`
	SpecificDate    *string   `json:"specificDate,omitempty"`
	StartTime       string    `json:"startTime"`
	BookingLimit    int       `json:"bookingLimit"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// Методы конвертации

// ToDomainSelector собирает селектор дня из пары необязательных полей
func ToDomainSelector(dayOfWeek *int, specificDate *string) (domain.DaySelector, error) {
	var date *time.Time
	if specificDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *specificDate)
		if err != nil {
			return domain.DaySelector{}, fmt.Errorf("%w: specificDate must be YYYY-MM-DD", domain.ErrInvalidRuleConfiguration)
		}
		date = &parsed
	}
	return domain.NewDaySelector(dayOfWeek, date)
}

// ToDomainRule конвертирует запрос в domain модель; ServiceID берется из варианта услуги
func (r *CreateRuleRequest) ToDomainRule(serviceID int64) (*domain.AvailabilityRule, error) {
	day, err := ToDomainSelector(r.DayOfWeek, r.SpecificDate)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be HH:MM", domain.ErrInvalidRuleConfiguration)
	}
	return &domain.AvailabilityRule{
		ServiceID:       serviceID,
		ServiceOptionID: r.ServiceOptionID,
		TherapistID:     r.TherapistID,
		Day:             day,
		StartTime:       start,
		BookingLimit:    r.BookingLimit,
		IsActive:        true,
	}, nil
}

// ApplyToRule применяет частичное обновление к правилу
func (r *UpdateRuleRequest) ApplyToRule(rule *domain.AvailabilityRule) error {
	if r.TherapistID != nil {
		rule.TherapistID = r.TherapistID
	}
	if r.DayOfWeek != nil || r.SpecificDate != nil {
		day, err := ToDomainSelector(r.DayOfWeek, r.SpecificDate)
		if err != nil {
			return err
		}
		rule.Day = day
	}
	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return fmt.Errorf("%w: startTime must be HH:MM", domain.ErrInvalidRuleConfiguration)
		}
		rule.StartTime = start
	}
	if r.BookingLimit != nil {
		rule.BookingLimit = *r.BookingLimit
	}
	if r.IsActive != nil {
		rule.IsActive = *r.IsActive
	}
	return nil
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}

	dayOfWeek, specificDate := r.Day.Columns()
	resp := &RuleResponse{
		ID:              r.ID,
		ServiceID:       r.ServiceID,
		ServiceOptionID: r.ServiceOptionID,
		TherapistID:     r.TherapistID,
		DayOfWeek:       dayOfWeek,
		StartTime:       r.StartTime.String(),
		BookingLimit:    r.BookingLimit,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if specificDate != nil {
		d := specificDate.Format(domain.DateFormat)
		resp.SpecificDate = &d
	}
	return resp
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	resp := &RuleListResponse{Rules: make([]RuleResponse, 0, len(rules))}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, *FromDomainRule(r))
	}
	return resp
}
