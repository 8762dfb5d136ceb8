package domain

import (
	"fmt"
	"time"
)

type selectorKind uint8

const (
	selectorNone selectorKind = iota
	selectorDayOfWeek
	selectorSpecificDate
)

// DaySelector says which days a rule or schedule block applies to:
// either a recurring weekday or exactly one calendar date, never both.
// The zero value selects nothing and fails Validate.
type DaySelector struct {
	kind    selectorKind
	weekday time.Weekday
	date    time.Time
}

// DayOfWeek selects every date falling on the given weekday (0 = Sunday)
func DayOfWeek(day time.Weekday) DaySelector {
	return DaySelector{kind: selectorDayOfWeek, weekday: day}
}

// SpecificDate selects one calendar date
func SpecificDate(date time.Time) DaySelector {
	return DaySelector{kind: selectorSpecificDate, date: DateOf(date)}
}

// NewDaySelector builds a selector from the nullable storage columns.
// Exactly one of dayOfWeek and specificDate must be set.
func NewDaySelector(dayOfWeek *int, specificDate *time.Time) (DaySelector, error) {
	switch {
	case dayOfWeek != nil && specificDate != nil:
		return DaySelector{}, fmt.Errorf("%w: both dayOfWeek and specificDate are set", ErrInvalidRuleConfiguration)
	case dayOfWeek == nil && specificDate == nil:
		return DaySelector{}, fmt.Errorf("%w: neither dayOfWeek nor specificDate is set", ErrInvalidRuleConfiguration)
	case specificDate != nil:
		return SpecificDate(*specificDate), nil
	}

	if *dayOfWeek < 0 || *dayOfWeek > 6 {
		return DaySelector{}, fmt.Errorf("%w: dayOfWeek %d out of range 0..6", ErrInvalidRuleConfiguration, *dayOfWeek)
	}
	return DayOfWeek(time.Weekday(*dayOfWeek)), nil
}

// Validate fails for the zero selector
func (s DaySelector) Validate() error {
	if s.kind == selectorNone {
		return fmt.Errorf("%w: day selector is empty", ErrInvalidRuleConfiguration)
	}
	return nil
}

func (s DaySelector) IsSpecificDate() bool {
	return s.kind == selectorSpecificDate
}

func (s DaySelector) IsDayOfWeek() bool {
	return s.kind == selectorDayOfWeek
}

// Weekday returns the recurring weekday, ok=false for a specific-date selector
func (s DaySelector) Weekday() (time.Weekday, bool) {
	return s.weekday, s.kind == selectorDayOfWeek
}

// Date returns the calendar date, ok=false for a weekday selector
func (s DaySelector) Date() (time.Time, bool) {
	return s.date, s.kind == selectorSpecificDate
}

// Matches reports whether the selector applies to the calendar date of day
func (s DaySelector) Matches(day time.Time) bool {
	switch s.kind {
	case selectorDayOfWeek:
		return day.Weekday() == s.weekday
	case selectorSpecificDate:
		return SameDate(s.date, day)
	}
	return false
}

// Columns returns the nullable (day_of_week, specific_date) pair for storage
func (s DaySelector) Columns() (*int, *time.Time) {
	switch s.kind {
	case selectorDayOfWeek:
		d := int(s.weekday)
		return &d, nil
	case selectorSpecificDate:
		date := s.date
		return nil, &date
	}
	return nil, nil
}

func (s DaySelector) String() string {
	switch s.kind {
	case selectorDayOfWeek:
		return s.weekday.String()
	case selectorSpecificDate:
		return s.date.Format(DateFormat)
	}
	return "none"
}

// DateOf drops the clock part of t, keeping its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compares calendar dates, each in its own location
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
