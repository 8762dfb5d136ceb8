package payment

import "github.com/m04kA/SMC-SchedulingService/pkg/money"

// ChargeRequest параметры списания за бронирование
type ChargeRequest struct {
	BookingID       int64
	PaymentMethodID string
	Amount          money.Cents
	Description     string
}

// RefundRequest параметры возврата
type RefundRequest struct {
	BookingID  int64
	PaymentRef string
	Amount     money.Cents
}

// Refund результат возврата
type Refund struct {
	ID     string
	Status string
	Amount money.Cents
}
