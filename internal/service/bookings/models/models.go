package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования персоналом
// Отмена сюда не входит: она идет через отдельный сценарий с возвратом средств
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListBookingsRequest запрос на получение бронирований
type ListBookingsRequest struct {
	ServiceOptionID *int64     `json:"serviceOptionId,omitempty"`
	TherapistID     *int64     `json:"therapistId,omitempty"`
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() domain.BookingsFilter {
	return domain.BookingsFilter{
		ServiceOptionID: r.ServiceOptionID,
		TherapistID:     r.TherapistID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"clientId"`
	ServiceID       int64     `json:"serviceId"`
	ServiceOptionID int64     `json:"serviceOptionId"`
	TherapistID     *int64    `json:"therapistId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	PriceAtBooking  string    `json:"priceAtBooking"`
	RefundAmount    *string   `json:"refundAmount,omitempty"`

	// Денормализованные данные
	ClientName  string  `json:"clientName"`
	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ClientID:           b.ClientID,
		ServiceID:          b.ServiceID,
		ServiceOptionID:    b.ServiceOptionID,
		TherapistID:        b.TherapistID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    int(b.Duration().Minutes()),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PriceAtBooking:     b.PriceAtBooking.Major(),
		ClientName:         b.ClientName,
		ServiceName:        b.ServiceName,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.RefundAmount != nil {
		refund := b.RefundAmount.Major()
		resp.RefundAmount = &refund
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
