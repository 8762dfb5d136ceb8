package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingConfirmation BookingStatus = "pending_confirmation"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByClient   BookingStatus = "cancelled_by_client"
	StatusCancelledByStaff    BookingStatus = "cancelled_by_staff"
	StatusNoShow              BookingStatus = "no_show"
)

// bookingTransitions lists every legal status change. Terminal statuses have no entry.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingConfirmation: {StatusConfirmed, StatusCancelledByClient, StatusCancelledByStaff},
	StatusConfirmed:           {StatusCompleted, StatusCancelledByClient, StatusCancelledByStaff, StatusNoShow},
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusConfirmed, StatusCompleted,
		StatusCancelledByClient, StatusCancelledByStaff, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancelled returns true for both cancellation statuses
func (s BookingStatus) IsCancelled() bool {
	return s == StatusCancelledByClient || s == StatusCancelledByStaff
}

// IsTerminal returns true when no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CancellationInitiator identifies who cancelled a booking
type CancellationInitiator string

const (
	InitiatorClient CancellationInitiator = "client"
	InitiatorStaff  CancellationInitiator = "staff"
)

// Status maps the initiator to the matching cancellation status
func (i CancellationInitiator) Status() (BookingStatus, bool) {
	switch i {
	case InitiatorClient:
		return StatusCancelledByClient, true
	case InitiatorStaff:
		return StatusCancelledByStaff, true
	}
	return "", false
}

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefundPending PaymentStatus = "refund_pending"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentFailed        PaymentStatus = "failed"
)

// Booking represents a therapy session booking.
// StartTime and EndTime are absolute instants; EndTime is fixed at creation.
type Booking struct {
	ID              int64
	ClientID        int64
	ServiceID       int64
	ServiceOptionID int64
	TherapistID     *int64 // nil until a therapist is assigned
	StartTime       time.Time
	EndTime         time.Time
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	// PriceAtBooking is copied from the option price at creation and never recomputed
	PriceAtBooking money.Cents
	PaymentRef     *string
	RefundAmount   *money.Cents

	// Denormalized data for history
	ClientName  string
	ServiceName string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies capacity
func (b *Booking) IsActive() bool {
	return !b.Status.IsCancelled()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelledByClient)
}

// Duration returns the scheduled length of the session
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// IsPaid returns true when money was captured for the booking
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// HasTherapist returns true when a therapist is assigned
func (b *Booking) HasTherapist() bool {
	return b.TherapistID != nil
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	ServiceOptionID *int64     // Фильтр по варианту услуги (опционально)
	TherapistID     *int64     // Фильтр по терапевту (опционально)
	From            *time.Time // Начало периода, включительно
	To              *time.Time // Конец периода, не включительно
	IncludeInactive bool       // Включать ли отмененные бронирования
}
