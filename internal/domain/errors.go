package domain

import "errors"

var (
	// ErrInvalidRuleConfiguration возвращается, когда правило доступности нарушает инварианты
	ErrInvalidRuleConfiguration = errors.New("scheduling: invalid rule configuration")

	// ErrInvalidScheduleBlock возвращается при некорректном блоке расписания
	ErrInvalidScheduleBlock = errors.New("scheduling: invalid schedule block")

	// ErrSlotNotOffered возвращается, когда ни одно правило не объявляет слот
	ErrSlotNotOffered = errors.New("scheduling: slot not offered")

	// ErrSlotFull возвращается, когда вместимость слота исчерпана
	ErrSlotFull = errors.New("scheduling: slot full")

	// ErrTherapistOverbooked возвращается при превышении мягкого дневного лимита терапевта
	ErrTherapistOverbooked = errors.New("scheduling: therapist overbooked")

	// ErrCorruptBookingDuration помечает бронирование с длительностью больше допустимой
	ErrCorruptBookingDuration = errors.New("scheduling: corrupt booking duration")

	// ErrTransactionConflict возвращается, когда конкурирующая транзакция выиграла гонку; вызывающий должен повторить
	ErrTransactionConflict = errors.New("scheduling: transaction conflict")

	// ErrTransient возвращается при таймауте транзакции или блокировки
	ErrTransient = errors.New("scheduling: transient error")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("scheduling: invalid status transition")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("scheduling: booking already cancelled")

	// ErrPaymentFailed возвращается, когда оплата не прошла и бронирование отменено
	ErrPaymentFailed = errors.New("scheduling: payment failed")
)
