package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID        int64            // ID клиента
	ServiceOptionID int64            // ID варианта услуги
	TherapistID     *int64           // ID терапевта (nil = любой)
	Date            time.Time        // Дата сеанса (без времени)
	StartTime       types.TimeString // Время начала слота по часам клиники
	Notes           *string          // Дополнительные заметки (опционально)

	// Оплата (опционально, не больше одного поля)
	PaymentRef      *string // Уже созданный платеж, который нужно проверить
	PaymentMethodID *string // Способ оплаты, с которого нужно списать цену
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ClientID        int64
	ServiceID       int64
	ServiceOptionID int64
	TherapistID     *int64
	StartTime       time.Time
	EndTime         time.Time
	Status          string
	PaymentStatus   string
	PriceAtBooking  money.Cents
	PaymentRef      *string

	// Денормализованные данные
	ClientName  string
	ServiceName string
	Notes       *string

	// Остаток вместимости слота после бронирования
	RemainingCapacity int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings параметры бизнес-правил бронирования
type Settings struct {
	Location                *time.Location // Часовой пояс клиники
	TherapistDailySoftLimit int            // 0 = выключено
	LockWaitTimeout         time.Duration  // Сколько ждать блокировку слота; 0 = пока жив контекст запроса
}
