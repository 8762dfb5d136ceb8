package slotlock

import (
	"context"
	"fmt"
	"sync"
)

// Local блокировка в памяти процесса: по одному семафору на ключ.
// Подходит для одного экземпляра сервиса; при нескольких экземплярах нужен Redis.
type Local struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	sem  chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*localSlot)}
}

func (l *Local) Backend() string {
	return "local"
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.acquireRef(key)

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key)
		return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			l.releaseRef(key)
		})
	}, nil
}

func (l *Local) acquireRef(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{sem: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

// releaseRef удаляет семафор, когда на ключ больше никто не ссылается
func (l *Local) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

// size количество ключей в памяти (для тестов)
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
