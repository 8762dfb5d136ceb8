package notification

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Noop издатель для окружений без Kafka
type Noop struct{}

func (Noop) BookingCreated(context.Context, *domain.Booking) error        { return nil }
func (Noop) BookingCancelled(context.Context, *domain.Booking) error      { return nil }
func (Noop) PaymentFailed(context.Context, *domain.Booking, string) error { return nil }
func (Noop) StatusChanged(context.Context, *domain.Booking) error         { return nil }
func (Noop) Close() error                                                 { return nil }
