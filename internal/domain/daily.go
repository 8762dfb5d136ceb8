package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// TimeRange is a wall-clock span within a day
type TimeRange struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ScheduledBooking is a booking as shown on a therapist's day
type ScheduledBooking struct {
	BookingID       int64
	ClientID        int64
	ClientName      string
	ServiceName     string
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	Price           money.Cents
	// ExcludedFromUtilization is set for bookings longer than the sanity ceiling
	ExcludedFromUtilization bool
}

// WarningCode classifies a non-fatal data problem found while composing a schedule
type WarningCode string

const (
	WarningCorruptBookingDuration WarningCode = "corrupt_booking_duration"
	WarningOvernightWrap          WarningCode = "overnight_wrap"
)

// Warning is surfaced to operators instead of failing the read
type Warning struct {
	Code      WarningCode
	BookingID int64 // 0 when the warning is about a schedule block
	BlockID   int64
	Message   string
}

// DaySummary derived totals of a therapist-day
type DaySummary struct {
	TotalWorkingMinutes int
	TotalBookedMinutes  int
	TotalTimeOffMinutes int
	TotalBookings       int
	UtilizationRate     float64 // percent, clamped to [0, 100]
}

// DailySchedule is the composed view of one therapist on one date
type DailySchedule struct {
	TherapistID   int64
	TherapistName string
	Date          time.Time
	IsClosed      bool
	WorkingBlocks []TimeRange
	TimeOffBlocks []TimeRange
	Bookings      []ScheduledBooking
	FreeSlots     []TimeRange
	Summary       DaySummary
	Warnings      []Warning
}

// PeriodSummary aggregates several daily summaries
type PeriodSummary struct {
	TotalBookings       int
	TotalBookedMinutes  int
	TotalWorkingMinutes int
	AverageUtilization  float64
}

// WeeklySchedule seven consecutive days of one therapist
type WeeklySchedule struct {
	TherapistID int64
	StartDate   time.Time
	Days        []DailySchedule
	Summary     PeriodSummary
}

// ScheduleOverview all active therapists on one date
type ScheduleOverview struct {
	Date       time.Time
	Therapists []DailySchedule
	Summary    PeriodSummary
}
