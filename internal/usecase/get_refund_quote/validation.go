package get_refund_quote

import "fmt"

// validateRequest проверяет, что выбран ровно один способ задать бронирование
func validateRequest(req *Request) error {
	byBooking := req.BookingID != nil
	byValues := req.Price != nil || req.ScheduledTime != nil

	switch {
	case byBooking && byValues:
		return fmt.Errorf("%w: bookingId and price/scheduledTime are mutually exclusive", ErrInvalidInput)
	case byBooking:
		if *req.BookingID <= 0 {
			return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
		}
	case req.Price == nil || req.ScheduledTime == nil:
		return fmt.Errorf("%w: either bookingId or both price and scheduledTime are required", ErrInvalidInput)
	}
	return nil
}
