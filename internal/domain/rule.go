package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilityRule declares that a slot exists for a service option at a start time,
// either every given weekday or on one date, and how many bookings it takes.
// TherapistID nil means "any therapist offering this option".
type AvailabilityRule struct {
	ID              int64
	ServiceID       int64
	ServiceOptionID int64
	TherapistID     *int64
	Day             DaySelector
	StartTime       types.TimeString
	BookingLimit    int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RuleGroup identifies the rules that compete under override precedence:
// a specific-date rule replaces day-of-week rules of the same group.
type RuleGroup struct {
	ServiceID       int64
	ServiceOptionID int64
	TherapistID     int64 // 0 when the rule is for any therapist
	AnyTherapist    bool
}

// Group returns the precedence group of the rule
func (r *AvailabilityRule) Group() RuleGroup {
	g := RuleGroup{ServiceID: r.ServiceID, ServiceOptionID: r.ServiceOptionID, AnyTherapist: r.TherapistID == nil}
	if r.TherapistID != nil {
		g.TherapistID = *r.TherapistID
	}
	return g
}

// IsForTherapist returns true when the rule names exactly this therapist
func (r *AvailabilityRule) IsForTherapist(therapistID int64) bool {
	return r.TherapistID != nil && *r.TherapistID == therapistID
}

// EndTime derives the end of the slot from the option duration
func (r *AvailabilityRule) EndTime(durationMinutes int) (types.TimeString, error) {
	return r.StartTime.AddMinutes(durationMinutes)
}

// Validate checks the write-time invariants of a rule
func (r *AvailabilityRule) Validate() error {
	if r.ServiceID <= 0 || r.ServiceOptionID <= 0 {
		return fmt.Errorf("%w: service and option are required", ErrInvalidRuleConfiguration)
	}
	if r.TherapistID != nil && *r.TherapistID <= 0 {
		return fmt.Errorf("%w: therapist id must be positive", ErrInvalidRuleConfiguration)
	}
	if err := r.Day.Validate(); err != nil {
		return err
	}
	if err := r.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidRuleConfiguration, err)
	}
	if r.BookingLimit < MinBookingLimit || r.BookingLimit > MaxBookingLimit {
		return fmt.Errorf("%w: booking limit must be between %d and %d",
			ErrInvalidRuleConfiguration, MinBookingLimit, MaxBookingLimit)
	}
	return nil
}
