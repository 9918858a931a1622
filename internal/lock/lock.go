package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/Leganyst/salon-platform/internal/apperr"
)

// Locker — критическая секция, скоуп — одна организация.
// Выделение талона очереди и проводка в кошелёк обязаны выполняться
// под этим замком: дефолтная изоляция БД не спасает от гонки.
type Locker interface {
	// WithLock выполняет fn под замком key; замок снимается в любом случае.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

const lockTTL = 30 * time.Second

// RedisLocker — распределённый замок на redislock.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.client.Obtain(ctx, fmt.Sprintf("lock:%s", key), lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	})
	if err == redislock.ErrNotObtained {
		return apperr.Conflict("could not obtain organization lock")
	} else if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	return fn(ctx)
}

// LocalLocker — внутрипроцессный замок: тесты и single-instance запуск без Redis.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
