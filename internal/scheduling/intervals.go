package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// mergeIntervals sorts by start and joins overlapping or touching intervals.
// Touching intervals are joined so no zero-length free sliver appears between them.
func mergeIntervals(in []types.Interval) []types.Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]types.Interval, 0, len(in))
	for _, iv := range in {
		if iv.Len() > 0 {
			sorted = append(sorted, iv)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]types.Interval, 0, len(sorted))
	for _, iv := range sorted {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// subtractIntervals returns the parts of working not covered by occupied.
// Both inputs are merged first; occupied intervals are clipped to each working block.
func subtractIntervals(working, occupied []types.Interval) []types.Interval {
	working = mergeIntervals(working)
	occupied = mergeIntervals(occupied)

	var free []types.Interval
	for _, block := range working {
		cursor := block.Start
		for _, occ := range occupied {
			clipped, ok := occ.Clip(block)
			if !ok {
				continue
			}
			if clipped.Start > cursor {
				free = append(free, types.Interval{Start: cursor, End: clipped.Start})
			}
			cursor = max(cursor, clipped.End)
		}
		if cursor < block.End {
			free = append(free, types.Interval{Start: cursor, End: block.End})
		}
	}
	return free
}

// totalMinutes sums interval lengths after merging
func totalMinutes(in []types.Interval) int {
	total := 0
	for _, iv := range mergeIntervals(in) {
		total += iv.Len()
	}
	return total
}

// instantInterval converts an absolute [start, end) to minutes relative to midnight of
// date in loc. Values may be negative or exceed a day for spans crossing midnight.
func instantInterval(start, end time.Time, date time.Time, loc *time.Location) types.Interval {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return types.Interval{
		Start: int(start.Sub(midnight) / time.Minute),
		End:   int(end.Sub(midnight) / time.Minute),
	}
}

// toRange renders a minute interval as wall times; minutes past midnight wrap
func toRange(iv types.Interval) (start, end types.TimeString) {
	return types.FromMinutes(iv.Start), types.FromMinutes(iv.End)
}
