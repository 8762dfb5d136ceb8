package slotlock

import (
	"context"
	"errors"
)

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось взять до отмены контекста
	ErrLockTimeout = errors.New("slotlock: lock wait timed out")

	// ErrLockLost возвращается при освобождении блокировки, которая уже истекла
	ErrLockLost = errors.New("slotlock: lock expired before release")
)

// Locker сериализует писателей по ключу слота.
// Lock блокируется до получения блокировки или отмены ctx; возвращаемая функция
// освобождает блокировку и безопасна для повторного вызова.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
	Backend() string
}
