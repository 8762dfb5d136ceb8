package cancel_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	Initiator domain.CancellationInitiator
	Reason    *string
}

// RefundInfo рассчитанный возврат
type RefundInfo struct {
	Amount   money.Cents
	Percent  int
	Tier     string
	Flagged  bool   // входные данные противоречивы, возврат принудительно нулевой
	Executed bool   // деньги отправлены через платежный шлюз
	RefundID string // ID возврата в шлюзе
}

// Response модель ответа на отмену
type Response struct {
	BookingID     int64
	Status        string
	PaymentStatus string
	CancelledAt   time.Time
	Refund        *RefundInfo // nil, если бронирование не было оплачено
}
