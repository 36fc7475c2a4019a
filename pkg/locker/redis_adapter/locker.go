//go:generate mockgen -source=locker.go -destination=./locker_mocks_test.go -package=redis_adapter_test
package redis_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"shop/pkg/locker"
)

// удаляем ключ только если он всё ещё наш, иначе можно снять чужую аренду после истечения ttl
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type Locker struct {
	client    redisClient
	namespace string
}

func New(client redisClient, namespace string) *Locker {
	return &Locker{
		client:    client,
		namespace: namespace,
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (locker.Lease, error) {
	fullKey := l.key(key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", fullKey, err)
	}
	if !ok {
		return nil, locker.ErrNotAcquired
	}

	return &lease{
		client: l.client,
		key:    fullKey,
		token:  token,
	}, nil
}

func (l *Locker) key(key string) string {
	return fmt.Sprintf("%s:lock:%s", l.namespace, key)
}

type lease struct {
	client redisClient
	key    string
	token  string
}

func (l *lease) Release(ctx context.Context) error {
	err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", l.key, err)
	}
	return nil
}
