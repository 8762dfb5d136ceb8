package slotrow

import "errors"

var (
	// ErrNoTransaction возвращается при попытке взять блокировку строки вне транзакции
	ErrNoTransaction = errors.New("slotrow.repository: row lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotrow.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotrow.repository: failed to execute query")
)
