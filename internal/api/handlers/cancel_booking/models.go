package cancel_booking

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Initiator string  `json:"initiator"` // client | staff
	Reason    *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в request use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID int64) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID: bookingID,
		Initiator: domain.CancellationInitiator(r.Initiator),
		Reason:    r.Reason,
	}
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID     int64           `json:"bookingId"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	CancelledAt   string          `json:"cancelledAt"`
	Refund        *RefundResponse `json:"refund,omitempty"`
}

// RefundResponse HTTP response model для возврата
type RefundResponse struct {
	Amount   string `json:"amount"`
	Percent  int    `json:"percent"`
	Tier     string `json:"tier"`
	Flagged  bool   `json:"flagged"`
	Executed bool   `json:"executed"`
	RefundID string `json:"refundId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		BookingID:     resp.BookingID,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		CancelledAt:   handlers.FormatInstant(resp.CancelledAt),
	}
	if resp.Refund != nil {
		out.Refund = &RefundResponse{
			Amount:   resp.Refund.Amount.Major(),
			Percent:  resp.Refund.Percent,
			Tier:     resp.Refund.Tier,
			Flagged:  resp.Refund.Flagged,
			Executed: resp.Refund.Executed,
			RefundID: resp.Refund.RefundID,
		}
	}
	return out
}
