package types

// Interval is a half-open range [Start, End) of minutes since local midnight.
// End may exceed MinutesPerDay for blocks that run past midnight.
type Interval struct {
	Start int
	End   int
}

// Len returns the interval length in minutes, 0 for empty or inverted intervals
func (i Interval) Len() int {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

// Overlaps reports whether two half-open intervals share at least one minute.
// Touching intervals ([09:00,10:00) and [10:00,11:00)) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Clip returns the part of i inside bounds and false when nothing is left
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	start := max(i.Start, bounds.Start)
	end := min(i.End, bounds.End)
	if end <= start {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// DurationMinutes returns the minutes between two wall times. When end is before start
// the range is taken to run overnight and a full day is added; wrapped reports that case
// so callers can surface it.
func DurationMinutes(start, end TimeString) (minutes int, wrapped bool, err error) {
	s, err := start.Minutes()
	if err != nil {
		return 0, false, err
	}
	e, err := end.Minutes()
	if err != nil {
		return 0, false, err
	}
	if e < s {
		return e + MinutesPerDay - s, true, nil
	}
	return e - s, false, nil
}

// IntervalOf converts a wall-time range to minutes, applying the overnight wrap
func IntervalOf(start, end TimeString) (Interval, bool, error) {
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, false, err
	}
	d, wrapped, err := DurationMinutes(start, end)
	if err != nil {
		return Interval{}, false, err
	}
	return Interval{Start: s, End: s + d}, wrapped, nil
}

// Overlaps reports whether [startA, endA) and [startB, endB) overlap, with overnight
// wrap applied to each range independently.
func Overlaps(startA, endA, startB, endB TimeString) (bool, error) {
	a, _, err := IntervalOf(startA, endA)
	if err != nil {
		return false, err
	}
	b, _, err := IntervalOf(startB, endB)
	if err != nil {
		return false, err
	}
	return a.Overlaps(b), nil
}
