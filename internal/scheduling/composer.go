package scheduling

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Composer builds daily, weekly and overview schedules from snapshots
type Composer struct {
	maxBookingDuration time.Duration
}

// NewComposer creates a composer; bookings longer than maxBookingDuration are treated
// as corrupt and left out of utilization
func NewComposer(maxBookingDuration time.Duration) *Composer {
	if maxBookingDuration <= 0 {
		maxBookingDuration = domain.DefaultMaxBookingDuration
	}
	return &Composer{maxBookingDuration: maxBookingDuration}
}

// Daily composes one therapist's day from the snapshot
func (c *Composer) Daily(s *Snapshot, therapist domain.Therapist) domain.DailySchedule {
	blocks := s.Blocks(therapist.ID)

	day := domain.DailySchedule{
		TherapistID:   therapist.ID,
		TherapistName: therapist.Name,
		Date:          s.Date(),
		IsClosed:      blocks.Closed,
		WorkingBlocks: make([]domain.TimeRange, 0, len(blocks.Working)),
		TimeOffBlocks: make([]domain.TimeRange, 0, len(blocks.TimeOff)),
		Bookings:      []domain.ScheduledBooking{},
		FreeSlots:     []domain.TimeRange{},
		Warnings:      append([]domain.Warning(nil), blocks.Warnings...),
	}

	for _, b := range blocks.Working {
		day.WorkingBlocks = append(day.WorkingBlocks, domain.TimeRange{StartTime: b.Block.StartTime, EndTime: b.Block.EndTime})
	}
	for _, b := range blocks.TimeOff {
		day.TimeOffBlocks = append(day.TimeOffBlocks, domain.TimeRange{StartTime: b.Block.StartTime, EndTime: b.Block.EndTime})
	}

	working := blocks.WorkingIntervals()
	occupied := blocks.TimeOffIntervals()
	bookedMinutes := 0

	for _, b := range s.therapistBookings(therapist.ID) {
		duration := b.Duration()
		iv := instantInterval(b.StartTime, b.EndTime, s.Date(), s.Location())

		entry := domain.ScheduledBooking{
			BookingID:       b.ID,
			ClientID:        b.ClientID,
			ClientName:      b.ClientName,
			ServiceName:     b.ServiceName,
			StartTime:       types.NewTimeString(b.StartTime.In(s.Location())),
			EndTime:         types.NewTimeString(b.EndTime.In(s.Location())),
			DurationMinutes: int(duration / time.Minute),
			Status:          b.Status,
			PaymentStatus:   b.PaymentStatus,
			Price:           b.PriceAtBooking,
		}

		if duration <= 0 || duration > c.maxBookingDuration {
			entry.ExcludedFromUtilization = true
			day.Warnings = append(day.Warnings, domain.Warning{
				Code:      domain.WarningCorruptBookingDuration,
				BookingID: b.ID,
				Message: fmt.Sprintf("%v: booking %d lasts %s, ceiling is %s",
					domain.ErrCorruptBookingDuration, b.ID, duration, c.maxBookingDuration),
			})
			day.Bookings = append(day.Bookings, entry)
			continue
		}

		occupied = append(occupied, iv)
		bookedMinutes += entry.DurationMinutes
		day.Bookings = append(day.Bookings, entry)
	}

	for _, free := range subtractIntervals(working, occupied) {
		start, end := toRange(free)
		day.FreeSlots = append(day.FreeSlots, domain.TimeRange{StartTime: start, EndTime: end})
	}

	workingMinutes := totalMinutes(working)
	timeOff := make([]types.Interval, 0, len(blocks.TimeOff))
	for _, off := range blocks.TimeOffIntervals() {
		for _, w := range mergeIntervals(working) {
			if clipped, ok := off.Clip(w); ok {
				timeOff = append(timeOff, clipped)
			}
		}
	}

	day.Summary = domain.DaySummary{
		TotalWorkingMinutes: workingMinutes,
		TotalBookedMinutes:  bookedMinutes,
		TotalTimeOffMinutes: totalMinutes(timeOff),
		TotalBookings:       len(day.Bookings),
		UtilizationRate:     Utilization(bookedMinutes, workingMinutes),
	}
	return day
}

// Summarize sums bookings and minutes and averages utilization over days
func Summarize(days []domain.DailySchedule) domain.PeriodSummary {
	var summary domain.PeriodSummary
	if len(days) == 0 {
		return summary
	}

	total := 0.0
	for _, d := range days {
		summary.TotalBookings += d.Summary.TotalBookings
		summary.TotalBookedMinutes += d.Summary.TotalBookedMinutes
		summary.TotalWorkingMinutes += d.Summary.TotalWorkingMinutes
		total += d.Summary.UtilizationRate
	}
	summary.AverageUtilization = round2(total / float64(len(days)))
	return summary
}

// Utilization returns booked/working as a percentage clamped to [0, 100]
func Utilization(bookedMinutes, workingMinutes int) float64 {
	if workingMinutes <= 0 || bookedMinutes <= 0 {
		return 0
	}
	rate := float64(bookedMinutes) / float64(workingMinutes) * 100
	return round2(math.Min(rate, 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
