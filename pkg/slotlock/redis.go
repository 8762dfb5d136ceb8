package slotlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultRetryWait = 25 * time.Millisecond
	maxRetryWait     = 250 * time.Millisecond
)

// releaseScript удаляет ключ только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Redis распределённая блокировка слота: SET NX PX с уникальным токеном.
// TTL ограничивает время удержания, если процесс упал, не освободив блокировку.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger Logger
}

func NewRedis(rdb redis.UniversalClient, prefix string, ttl time.Duration, logger Logger) *Redis {
	if prefix == "" {
		prefix = "slotlock"
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl, logger: logger}
}

func (r *Redis) Backend() string {
	return "redis"
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + ":" + key
	token := uuid.NewString()
	wait := defaultRetryWait

	for {
		ok, err := r.rdb.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("slotlock: redis SETNX key=%s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, ctx.Err())
		case <-timer.C:
		}
		wait = min(wait*2, maxRetryWait)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем с отдельным контекстом: исходный может быть уже отменён
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			n, err := releaseScript.Run(releaseCtx, r.rdb, []string{redisKey}, token).Int()
			if err != nil {
				if r.logger != nil {
					r.logger.Warn("slotlock: release key=%s failed: %v", key, err)
				}
				return
			}
			if n == 0 && r.logger != nil {
				r.logger.Warn("slotlock: %v key=%s", ErrLockLost, key)
			}
		})
	}, nil
}
