package create_booking

import "errors"

var (
	// ErrServiceOptionNotFound возвращается, когда вариант услуги не найден или выключен
	ErrServiceOptionNotFound = errors.New("create_booking: service option not found")

	// ErrTherapistNotFound возвращается, когда терапевт не найден или неактивен
	ErrTherapistNotFound = errors.New("create_booking: therapist not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrSlotInPast возвращается при попытке забронировать уже начавшийся слот
	ErrSlotInPast = errors.New("create_booking: slot start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Исходы попытки бронирования для метрик
const (
	outcomeCreated       = "created"
	outcomeNotOffered    = "not_offered"
	outcomeFull          = "full"
	outcomeOverbooked    = "therapist_overbooked"
	outcomeConflict      = "conflict"
	outcomeTransient     = "transient"
	outcomePaymentFailed = "payment_failed"
	outcomeError         = "error"
)
