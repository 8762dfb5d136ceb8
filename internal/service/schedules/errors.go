package schedules

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блок расписания не найден
	ErrBlockNotFound = errors.New("schedule block not found")

	// ErrTherapistNotFound возвращается, когда терапевт не найден
	ErrTherapistNotFound = errors.New("therapist not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
