// Package lock serializes webhook reconciliation per external transaction id.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort mutual exclusion primitive keyed by string.
type Locker interface {
	// Acquire returns true if the lock was taken. The lock expires after ttl
	// even if never released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLock uses SETNX with a TTL. Good enough to bound double-application
// races between concurrent webhook deliveries; not a fencing lock.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "lock:"+key, "1", ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, "lock:"+key).Err()
}

// LocalLock is the in-process fallback for single-instance deployments and
// tests. TTLs are honored so an abandoned key doesn't wedge the handler.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]time.Time // key -> expiry
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]time.Time)}
}

func (l *LocalLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if exp, ok := l.held[key]; ok && time.Now().Before(exp) {
		return false, nil
	}
	l.held[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *LocalLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
