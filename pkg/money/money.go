package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a decimal amount cannot be parsed
var ErrInvalidAmount = errors.New("money: invalid amount")

// Cents is an amount in minor currency units.
// Arithmetic is integer-only; the decimal form exists for storage and display.
type Cents int64

// majorPattern accepts an optional minus, digits and an optional fraction.
// Signs inside the number, exponents and a leading plus are rejected.
var majorPattern = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// FromMajor parses a major-unit decimal such as "100", "49.9" or "12.05"
func FromMajor(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if !majorPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: malformed %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return fromDecimal(d)
}

// fromDecimal converts to cents; NUMERIC(12,2) never carries more than two places,
// anything finer is rejected rather than rounded
func fromDecimal(d decimal.Decimal) (Cents, error) {
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than two decimal places in %s", ErrInvalidAmount, d)
	}
	if !cents.Equal(decimal.NewFromInt(cents.IntPart())) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d)
	}
	return Cents(cents.IntPart()), nil
}

// Major renders the amount as a major-unit decimal with two places
func (c Cents) Major() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// Percent returns p percent of the amount, rounded down to the cent
func (c Cents) Percent(p int) Cents {
	return Cents(int64(c) * int64(p) / 100)
}

func (c Cents) Int64() int64 {
	return int64(c)
}

func (c Cents) String() string {
	return c.Major()
}

// Scan implements sql.Scanner for NUMERIC columns
func (c *Cents) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = 0
		return nil
	case []byte:
		parsed, err := FromMajor(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case string:
		parsed, err := FromMajor(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case int64:
		*c = Cents(v * 100)
		return nil
	case float64:
		parsed, err := fromDecimal(decimal.NewFromFloat(v).Round(2))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidAmount, src)
	}
}

// Value implements driver.Valuer, storing the major-unit decimal
func (c Cents) Value() (driver.Value, error) {
	return c.Major(), nil
}
