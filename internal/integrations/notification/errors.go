package notification

import "errors"

var (
	// ErrPublish возвращается при ошибке отправки события в Kafka
	ErrPublish = errors.New("notification: failed to publish event")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notification: failed to encode event")
)
