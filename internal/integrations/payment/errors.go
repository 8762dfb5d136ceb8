package payment

import "errors"

var (
	// ErrPaymentNotCompleted возвращается, когда платеж существует, но не завершен
	ErrPaymentNotCompleted = errors.New("payment client: payment not completed")

	// ErrAmountMismatch возвращается, когда сумма платежа не совпадает с ценой бронирования
	ErrAmountMismatch = errors.New("payment client: amount mismatch")

	// ErrDeclined возвращается, когда платеж отклонен
	ErrDeclined = errors.New("payment client: payment declined")

	// ErrDisabled возвращается, когда платежи не настроены
	ErrDisabled = errors.New("payment client: payments disabled")

	// ErrInvalidRequest возвращается при некорректных параметрах вызова
	ErrInvalidRequest = errors.New("payment client: invalid request")

	// ErrInternal возвращается при ошибках обращения к платежному шлюзу
	ErrInternal = errors.New("payment client: internal error")
)
