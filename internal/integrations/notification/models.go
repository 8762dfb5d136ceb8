package notification

import "time"

// Типы событий; они же имена топиков
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingPaymentFailed = "booking.payment_failed"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent тело события о бронировании
type BookingEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	BookingID       int64     `json:"booking_id"`
	ClientID        int64     `json:"client_id"`
	TherapistID     *int64    `json:"therapist_id,omitempty"`
	ServiceOptionID int64     `json:"service_option_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	Price           string    `json:"price"`
	RefundAmount    *string   `json:"refund_amount,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
}
