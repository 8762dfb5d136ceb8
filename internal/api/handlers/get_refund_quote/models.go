package get_refund_quote

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getRefundQuote "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_refund_quote"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

var (
	errInvalidPrice         = errors.New("некорректная цена, ожидается десятичное число с двумя знаками")
	errInvalidScheduledTime = errors.New("некорректное время сеанса, ожидается RFC3339")
)

// RefundQuoteRequest HTTP request model.
// Либо bookingId, либо price + scheduledTime.
type RefundQuoteRequest struct {
	BookingID     *int64  `json:"bookingId,omitempty"`
	Price         *string `json:"price,omitempty"`         // "100.00"
	ScheduledTime *string `json:"scheduledTime,omitempty"` // RFC3339 со смещением
}

// ToUseCaseRequest конвертирует HTTP request в request use case
func (r *RefundQuoteRequest) ToUseCaseRequest() (*getRefundQuote.Request, error) {
	req := &getRefundQuote.Request{BookingID: r.BookingID}

	if r.Price != nil {
		price, err := money.FromMajor(*r.Price)
		if err != nil {
			return nil, errInvalidPrice
		}
		req.Price = &price
	}

	if r.ScheduledTime != nil {
		scheduled, err := time.Parse(time.RFC3339, *r.ScheduledTime)
		if err != nil {
			return nil, errInvalidScheduledTime
		}
		req.ScheduledTime = &scheduled
	}

	return req, nil
}

// RefundQuoteResponse HTTP response model
type RefundQuoteResponse struct {
	BookingID     *int64  `json:"bookingId,omitempty"`
	Price         string  `json:"price"`
	ScheduledTime string  `json:"scheduledTime"`
	QuotedAt      string  `json:"quotedAt"`
	Amount        string  `json:"amount"`
	Percent       int     `json:"percent"`
	Tier          string  `json:"tier"`
	HoursUntil    float64 `json:"hoursUntil"`
	Flagged       bool    `json:"flagged"`
	FlagCause     string  `json:"flagCause,omitempty"`
	Refundable    bool    `json:"refundable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getRefundQuote.Response) *RefundQuoteResponse {
	return &RefundQuoteResponse{
		BookingID:     resp.BookingID,
		Price:         resp.Price.Major(),
		ScheduledTime: handlers.FormatInstant(resp.ScheduledTime),
		QuotedAt:      handlers.FormatInstant(resp.QuotedAt),
		Amount:        resp.Amount.Major(),
		Percent:       resp.Percent,
		Tier:          resp.Tier,
		HoursUntil:    resp.HoursUntil,
		Flagged:       resp.Flagged,
		FlagCause:     resp.FlagCause,
		Refundable:    resp.Refundable,
	}
}
