package get_schedule

import (
	"fmt"
	"time"
)

func validateTherapistDate(therapistID int64, date time.Time) error {
	if therapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
