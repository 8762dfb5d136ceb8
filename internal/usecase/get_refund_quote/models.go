package get_refund_quote

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// Request запрос расчета возврата.
// Либо BookingID, либо пара Price и ScheduledTime.
type Request struct {
	BookingID     *int64
	Price         *money.Cents
	ScheduledTime *time.Time
}

// Response рассчитанный возврат; ничего не меняет в данных
type Response struct {
	BookingID     *int64
	Price         money.Cents
	ScheduledTime time.Time
	QuotedAt      time.Time
	Amount        money.Cents
	Percent       int
	Tier          string
	HoursUntil    float64
	Flagged       bool
	FlagCause     string

	// Refundable false, когда бронирование не оплачено или уже отменено:
	// отмена такого бронирования ничего не вернет
	Refundable bool
}
