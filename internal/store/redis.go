package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisKV backs the KV contract with Redis. A zero TTL keeps entries
// until removed.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *RedisKV) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
