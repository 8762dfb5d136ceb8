package get_available_slots

import "errors"

var (
	// ErrServiceOptionNotFound возвращается, когда вариант услуги не найден, выключен или относится к другой услуге
	ErrServiceOptionNotFound = errors.New("get_available_slots: service option not found")

	// ErrTherapistNotFound возвращается, когда терапевт не найден или неактивен
	ErrTherapistNotFound = errors.New("get_available_slots: therapist not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
