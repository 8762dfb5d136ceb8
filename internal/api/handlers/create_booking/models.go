package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID        int64   `json:"clientId"`
	ServiceOptionID int64   `json:"serviceOptionId"`
	TherapistID     *int64  `json:"therapistId,omitempty"`
	Date            string  `json:"date"`      // "2026-03-10"
	StartTime       string  `json:"startTime"` // "10:00"
	Notes           *string `json:"notes,omitempty"`
	PaymentRef      *string `json:"paymentRef,omitempty"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	ClientID          int64   `json:"clientId"`
	ServiceID         int64   `json:"serviceId"`
	ServiceOptionID   int64   `json:"serviceOptionId"`
	TherapistID       *int64  `json:"therapistId,omitempty"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	PriceAtBooking    string  `json:"priceAtBooking"`
	PaymentRef        *string `json:"paymentRef,omitempty"`
	ClientName        string  `json:"clientName"`
	ServiceName       string  `json:"serviceName"`
	Notes             *string `json:"notes,omitempty"`
	RemainingCapacity int     `json:"remainingCapacity"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		ClientID:        r.ClientID,
		ServiceOptionID: r.ServiceOptionID,
		TherapistID:     r.TherapistID,
		Date:            date,
		StartTime:       startTime,
		Notes:           r.Notes,
		PaymentRef:      r.PaymentRef,
		PaymentMethodID: r.PaymentMethodID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		ClientID:          resp.ClientID,
		ServiceID:         resp.ServiceID,
		ServiceOptionID:   resp.ServiceOptionID,
		TherapistID:       resp.TherapistID,
		StartTime:         handlers.FormatInstant(resp.StartTime),
		EndTime:           handlers.FormatInstant(resp.EndTime),
		Status:            resp.Status,
		PaymentStatus:     resp.PaymentStatus,
		PriceAtBooking:    resp.PriceAtBooking.Major(),
		PaymentRef:        resp.PaymentRef,
		ClientName:        resp.ClientName,
		ServiceName:       resp.ServiceName,
		Notes:             resp.Notes,
		RemainingCapacity: resp.RemainingCapacity,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
