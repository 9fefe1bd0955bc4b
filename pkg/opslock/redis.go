package opslock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still names the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the TTL only when the key still names the caller.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker is a Locker shared by every unit connected to the same redis.
type RedisLocker struct {
	db  redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisLocker returns a locker stored under key with the given TTL.
func NewRedisLocker(db redis.UniversalClient, key string, ttl time.Duration) *RedisLocker {
	if key == "" {
		key = "opensearch:ops-lock"
	}
	return &RedisLocker{db: db, key: key, ttl: ttl}
}

// NewRedisLockerFromConfig uses the key and TTL from cfg.
func NewRedisLockerFromConfig(db redis.UniversalClient, cfg Config) *RedisLocker {
	return NewRedisLocker(db, cfg.Key, cfg.TTL)
}

func (l *RedisLocker) Acquire(ctx context.Context, unit string) (bool, error) {
	if unit == "" {
		return false, ErrEmptyUnit
	}

	ok, err := l.db.SetNX(ctx, l.key, unit, l.ttl).Result()
	if err != nil {
		return false, errors.Join(ErrLockStore, err)
	}
	if ok {
		return true, nil
	}

	if l.ttl <= 0 {
		holder, err := l.Holder(ctx)
		if err != nil {
			return false, err
		}
		return holder == unit, nil
	}

	refreshed, err := refreshScript.Run(ctx, l.db, []string{l.key}, unit, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, errors.Join(ErrLockStore, err)
	}
	return refreshed == 1, nil
}

func (l *RedisLocker) Release(ctx context.Context, unit string) error {
	if unit == "" {
		return ErrEmptyUnit
	}

	deleted, err := releaseScript.Run(ctx, l.db, []string{l.key}, unit).Int()
	if err != nil {
		return errors.Join(ErrLockStore, err)
	}
	if deleted == 1 {
		return nil
	}

	holder, err := l.Holder(ctx)
	if err != nil {
		return err
	}
	if holder != "" {
		return ErrNotHolder
	}
	return nil
}

func (l *RedisLocker) Holder(ctx context.Context) (string, error) {
	holder, err := l.db.Get(ctx, l.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrLockStore, err)
	}
	return holder, nil
}

// Connect establishes a connection to redis, retrying RetryAttempts times
// with RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// Healthcheck returns a readiness probe pinging redis.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrLockStore, err)
		}
		return nil
	}
}
