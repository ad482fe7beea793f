package ownership

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Devices returns the Store belonging to a device.
type Devices interface {
	For(deviceID string) Store
}

// RedisStore keeps one device's entries in a single Redis hash so the
// whole device namespace expires together.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotExist
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key, key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.HDel(ctx, s.key, key).Err()
}

// RedisDevices maps device ids to hashes named <prefix>:<device id>.
// Each write refreshes the hash TTL, so a device that keeps booking keeps
// its entries.
type RedisDevices struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDevices builds a registry on rdb.  A zero ttl keeps entries forever.
func NewRedisDevices(rdb *redis.Client, prefix string, ttl time.Duration) *RedisDevices {
	if prefix == "" {
		prefix = "device"
	}
	return &RedisDevices{rdb: rdb, prefix: prefix, ttl: ttl}
}

// For returns the store of deviceID.
func (d *RedisDevices) For(deviceID string) Store {
	return &RedisStore{rdb: d.rdb, key: d.prefix + ":" + deviceID, ttl: d.ttl}
}
