package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID       int64     // ID услуги
	ServiceOptionID int64     // ID варианта услуги
	TherapistID     *int64    // ID терапевта (nil = любой, вместимость суммируется)
	Date            time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	ServiceID       int64     // ID услуги
	ServiceOptionID int64     // ID варианта услуги
	TherapistID     *int64    // ID терапевта из запроса
	DurationMinutes int       // Длительность сеанса варианта
	Slots           []Slot    // Список слотов, включая заполненные
}

// Slot модель временного слота
type Slot struct {
	StartTime    types.TimeString // Время начала слота (например, "10:00")
	EndTime      types.TimeString // Время окончания слота
	Remaining    int              // Количество свободных мест
	BookingLimit int              // Общее количество мест
}
