package list_bookings

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

var (
	errInvalidTherapistID = errors.New("некорректный ID терапевта")
	errInvalidOptionID    = errors.New("некорректный ID варианта услуги")
	errInvalidFrom        = errors.New("некорректный параметр from, ожидается YYYY-MM-DD или RFC3339")
	errInvalidTo          = errors.New("некорректный параметр to, ожидается YYYY-MM-DD или RFC3339")
	errInvalidFlag        = errors.New("некорректный параметр includeInactive")
)

// parseQuery собирает фильтр из query-параметров
// Дата без времени в параметре to трактуется как конец этого дня (включительно)
func parseQuery(q url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	therapistID, err := handlers.ParseOptionalID(q.Get("therapistId"))
	if err != nil {
		return nil, errInvalidTherapistID
	}
	req.TherapistID = therapistID

	optionID, err := handlers.ParseOptionalID(q.Get("serviceOptionId"))
	if err != nil {
		return nil, errInvalidOptionID
	}
	req.ServiceOptionID = optionID

	if raw := q.Get("from"); raw != "" {
		from, _, err := parseBound(raw)
		if err != nil {
			return nil, errInvalidFrom
		}
		req.From = &from
	}

	if raw := q.Get("to"); raw != "" {
		to, dateOnly, err := parseBound(raw)
		if err != nil {
			return nil, errInvalidTo
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		req.To = &to
	}

	if raw := q.Get("includeInactive"); raw != "" {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errInvalidFlag
		}
		req.IncludeInactive = flag
	}

	return req, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := handlers.ParseDate(raw)
	return t, true, err
}
