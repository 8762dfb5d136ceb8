package catalog

import "errors"

var (
	// ErrServiceOptionNotFound возвращается, когда вариант услуги не найден
	ErrServiceOptionNotFound = errors.New("service option not found")

	// ErrInvalidPrice возвращается при некорректной или отрицательной цене
	ErrInvalidPrice = errors.New("catalog: invalid price")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
