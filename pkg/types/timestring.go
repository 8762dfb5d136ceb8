package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	timeLayout        = "15:04"
	timeLayoutSeconds = "15:04:05"
)

// ErrInvalidTimeString is returned when a value is not a valid HH:MM wall time
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString is a wall-clock time of day in HH:MM form.
// It carries no date and no location; the zero value means "not set".
type TimeString string

// NewTimeString takes the wall-clock part of t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS" (as returned by Postgres TIME columns)
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := parseWallTime(s)
	if err != nil {
		return "", err
	}
	return NewTimeString(t), nil
}

// FromMinutes builds a TimeString from minutes since midnight, wrapping past midnight
func FromMinutes(minutes int) TimeString {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

func (ts TimeString) String() string {
	return string(ts)
}

func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate checks the HH:MM format
func (ts TimeString) Validate() error {
	_, err := parseWallTime(string(ts))
	return err
}

// Minutes returns minutes since midnight
func (ts TimeString) Minutes() (int, error) {
	t, err := parseWallTime(string(ts))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes shifts the time by the given number of minutes. The result wraps past
// midnight: 23:30 + 60 = 00:30.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := ts.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + minutes), nil
}

// IsBefore compares two times of the same day. Invalid values compare as false.
func (ts TimeString) IsBefore(other TimeString) bool {
	a, errA := ts.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter compares two times of the same day. Invalid values compare as false.
func (ts TimeString) IsAfter(other TimeString) bool {
	a, errA := ts.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a > b
}

// On combines the wall time with the calendar date of day in loc
func (ts TimeString) On(day time.Time, loc *time.Location) (time.Time, error) {
	m, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}

// Scan implements sql.Scanner for TIME / TEXT columns
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// Value implements driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

func parseWallTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(timeLayoutSeconds, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}
