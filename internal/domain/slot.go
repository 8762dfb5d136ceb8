package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Slot represents a bookable start time with its capacity
type Slot struct {
	StartTime    types.TimeString
	EndTime      types.TimeString
	Remaining    int
	BookingLimit int
}

// IsFull returns true if the slot has no remaining capacity
func (s *Slot) IsFull() bool {
	return s.Remaining <= 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.BookingLimit == 0 {
		return 0
	}
	occupied := s.BookingLimit - s.Remaining
	return float64(occupied) / float64(s.BookingLimit) * 100
}

// SlotQuery identifies a candidate slot for the capacity check
type SlotQuery struct {
	ServiceID       int64
	ServiceOptionID int64
	TherapistID     *int64 // nil = any therapist, capacity is pooled
	Date            time.Time
	StartTime       types.TimeString
}

// LockKey is the serialization key for writers of this slot. It leaves the therapist
// out so pooled and therapist-specific bookings of the same slot time contend.
func (q SlotQuery) LockKey() string {
	return fmt.Sprintf("slot:%d:%s:%s", q.ServiceOptionID, q.Date.Format(DateFormat), q.StartTime)
}

// Capacity is the outcome of a capacity check
type Capacity struct {
	BookingLimit int
	Booked       int
	Remaining    int
	IsAvailable  bool
}
