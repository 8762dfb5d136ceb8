package txmanager

import "errors"

var (
	// ErrBeginTx возвращается, когда не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, когда не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure возвращается, когда Postgres отменил транзакцию из-за
	// конфликта сериализации или deadlock. Операцию можно повторить.
	ErrSerializationFailure = errors.New("txmanager: serialization failure")

	// ErrTimeout возвращается, когда транзакция не уложилась в дедлайн контекста
	ErrTimeout = errors.New("txmanager: transaction timed out")
)
