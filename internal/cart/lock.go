package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/tableserve-backend/pkg/redis"
	"github.com/google/uuid"
)

const (
	scopeLockName  = "cart"
	defaultLockTTL = 30 * time.Second
)

// Lock guards writes to one cart scope. Submission and cart edits share it.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Locker hands out the lock for a cart scope.
type Locker interface {
	For(scopeKey string) Lock
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name, scopeKey string) string
}

// RedisLocker builds SETNX-based locks under the cart lock namespace.
type RedisLocker struct {
	client lockStore
	ttl    time.Duration
}

// NewRedisLocker constructs a Redis-backed locker. The ttl bounds how long a
// crashed writer can block its scope.
func NewRedisLocker(client lockStore, ttl time.Duration) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{client: client, ttl: ttl}, nil
}

func (l *RedisLocker) For(scopeKey string) Lock {
	return &RedisLock{client: l.client, key: l.client.LockKey(scopeLockName, scopeKey), ttl: l.ttl}
}

// RedisLock implements Lock using Redis SETNX + TTL.
type RedisLock struct {
	client lockStore
	key    string
	ttl    time.Duration
	owner  string
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner value still matches.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			l.owner = ""
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		l.owner = ""
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
