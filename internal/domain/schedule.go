package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleBlockType discriminates working hours from time off
type ScheduleBlockType string

const (
	BlockWorkingHours ScheduleBlockType = "working_hours"
	BlockTimeOff      ScheduleBlockType = "time_off"
)

// ScheduleBlock is a therapist's working-hours or time-off span.
// A specific-date WorkingHours block with IsClosed set marks the therapist as not
// working that day; it carries no times.
type ScheduleBlock struct {
	ID            int64
	TherapistID   int64
	Type          ScheduleBlockType
	Day           DaySelector
	StartTime     types.TimeString
	EndTime       types.TimeString
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	IsClosed      bool
	IsActive      bool
	Reason        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InEffect reports whether the date falls inside the optional validity window
func (b *ScheduleBlock) InEffect(date time.Time) bool {
	d := DateOf(date)
	if b.EffectiveFrom != nil && d.Before(DateOf(*b.EffectiveFrom)) {
		return false
	}
	if b.EffectiveTo != nil && d.After(DateOf(*b.EffectiveTo)) {
		return false
	}
	return true
}

// AppliesOn reports whether an active block applies to the date
func (b *ScheduleBlock) AppliesOn(date time.Time) bool {
	return b.IsActive && b.Day.Matches(date) && b.InEffect(date)
}

// Validate checks the write-time invariants of a block
func (b *ScheduleBlock) Validate() error {
	if b.TherapistID <= 0 {
		return fmt.Errorf("%w: therapist is required", ErrInvalidScheduleBlock)
	}
	if b.Type != BlockWorkingHours && b.Type != BlockTimeOff {
		return fmt.Errorf("%w: unknown block type %q", ErrInvalidScheduleBlock, b.Type)
	}
	if err := b.Day.Validate(); err != nil {
		return err
	}
	if b.EffectiveFrom != nil && b.EffectiveTo != nil && DateOf(*b.EffectiveTo).Before(DateOf(*b.EffectiveFrom)) {
		return fmt.Errorf("%w: effectiveTo is before effectiveFrom", ErrInvalidScheduleBlock)
	}

	if b.IsClosed {
		if b.Type != BlockWorkingHours || !b.Day.IsSpecificDate() {
			return fmt.Errorf("%w: only a specific-date working hours block can close a day", ErrInvalidScheduleBlock)
		}
		return nil
	}

	if err := b.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidScheduleBlock, err)
	}
	if err := b.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidScheduleBlock, err)
	}
	if b.StartTime == b.EndTime {
		return fmt.Errorf("%w: block is empty", ErrInvalidScheduleBlock)
	}
	return nil
}
