package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ServiceOptionID <= 0 {
		return fmt.Errorf("%w: serviceOptionID must be positive", ErrInvalidInput)
	}

	if req.TherapistID != nil && *req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// dropStarted убирает слоты, начало которых уже наступило.
// Для прошедших дат список становится пустым, для будущих не меняется.
func dropStarted(slots []domain.Slot, date time.Time, loc *time.Location, now time.Time) []domain.Slot {
	out := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		start, err := slot.StartTime.On(date, loc)
		if err != nil || !start.After(now) {
			continue
		}
		out = append(out, slot)
	}
	return out
}
