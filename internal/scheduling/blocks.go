package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ResolvedBlock is a schedule block that governs the date, in minutes
type ResolvedBlock struct {
	Block    domain.ScheduleBlock
	Interval types.Interval
}

// DayBlocks working hours and time off of one therapist on one date
type DayBlocks struct {
	Closed   bool
	Working  []ResolvedBlock
	TimeOff  []ResolvedBlock
	Warnings []domain.Warning
}

// WorkingIntervals returns the working spans in minutes
func (d DayBlocks) WorkingIntervals() []types.Interval {
	return intervalsOf(d.Working)
}

// TimeOffIntervals returns the time-off spans in minutes
func (d DayBlocks) TimeOffIntervals() []types.Interval {
	return intervalsOf(d.TimeOff)
}

// Available returns working time minus time off
func (d DayBlocks) Available() []types.Interval {
	return subtractIntervals(d.WorkingIntervals(), d.TimeOffIntervals())
}

func intervalsOf(blocks []ResolvedBlock) []types.Interval {
	out := make([]types.Interval, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Interval)
	}
	return out
}

// ResolveBlocks picks the blocks governing the therapist's date.
// Per block type, specific-date blocks for the date replace every day-of-week block;
// a specific-date working block marked closed makes the day closed.
func ResolveBlocks(blocks []domain.ScheduleBlock, therapistID int64, date time.Time) DayBlocks {
	var (
		workingByDate, workingByWeekday []domain.ScheduleBlock
		offByDate, offByWeekday         []domain.ScheduleBlock
	)

	for _, b := range blocks {
		if b.TherapistID != therapistID || !b.AppliesOn(date) {
			continue
		}
		switch {
		case b.Type == domain.BlockWorkingHours && b.Day.IsSpecificDate():
			workingByDate = append(workingByDate, b)
		case b.Type == domain.BlockWorkingHours:
			workingByWeekday = append(workingByWeekday, b)
		case b.Type == domain.BlockTimeOff && b.Day.IsSpecificDate():
			offByDate = append(offByDate, b)
		case b.Type == domain.BlockTimeOff:
			offByWeekday = append(offByWeekday, b)
		}
	}

	var result DayBlocks

	working := workingByWeekday
	if len(workingByDate) > 0 {
		working = workingByDate
		for _, b := range workingByDate {
			if b.IsClosed {
				result.Closed = true
				working = nil
				break
			}
		}
	}

	timeOff := offByWeekday
	if len(offByDate) > 0 {
		timeOff = offByDate
	}

	result.Working = resolveIntervals(working, &result.Warnings)
	if !result.Closed {
		result.TimeOff = resolveIntervals(timeOff, &result.Warnings)
	}
	return result
}

func resolveIntervals(blocks []domain.ScheduleBlock, warnings *[]domain.Warning) []ResolvedBlock {
	out := make([]ResolvedBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.IsClosed {
			continue
		}
		iv, wrapped, err := types.IntervalOf(b.StartTime, b.EndTime)
		if err != nil {
			// Блок прошел валидацию при записи; битые строки пропускаем
			continue
		}
		if wrapped {
			*warnings = append(*warnings, domain.Warning{
				Code:    domain.WarningOvernightWrap,
				BlockID: b.ID,
				Message: fmt.Sprintf("%s block %d ends before it starts (%s-%s), treated as overnight",
					b.Type, b.ID, b.StartTime, b.EndTime),
			})
		}
		out = append(out, ResolvedBlock{Block: b, Interval: iv})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Interval.Start < out[j].Interval.Start })
	return out
}
