package domain

import "time"

// Business validation constants
const (
	MinBookingLimit             = 1
	MaxBookingLimit             = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	DaysInWeek                  = 7
)

// DefaultMaxBookingDuration is the sanity ceiling above which a booking is treated as corrupt
const DefaultMaxBookingDuration = 24 * time.Hour

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy slot capacity
var ActiveStatuses = []BookingStatus{
	StatusPendingConfirmation,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// CancelledStatuses statuses that release slot capacity
var CancelledStatuses = []BookingStatus{
	StatusCancelledByClient,
	StatusCancelledByStaff,
}

// PaymentFailedReason cancellation reason of a compensating cancellation
const PaymentFailedReason = "payment_failed"
