package payment

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// Disabled шлюз для окружений без платежей: любой вызов возвращает ErrDisabled
type Disabled struct{}

func (Disabled) Verify(context.Context, string, money.Cents) error {
	return ErrDisabled
}

func (Disabled) Charge(context.Context, ChargeRequest) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Refund(context.Context, RefundRequest) (*Refund, error) {
	return nil, ErrDisabled
}
