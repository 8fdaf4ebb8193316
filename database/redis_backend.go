package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the document as a string key and the event log as a list,
// newest entry at the head.
type RedisBackend struct {
	Client *redis.Client
}

func NewRedisBackend(url string) (*RedisBackend, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return &RedisBackend{Client: redis.NewClient(opt)}, nil
}

func (b *RedisBackend) ReadDocument(ctx context.Context, key string) ([]byte, error) {
	val, err := b.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *RedisBackend) WriteDocument(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return b.Client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) PushEvent(ctx context.Context, stream string, payload []byte, limit int, ttl time.Duration) error {
	_, err := b.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, stream, payload)
		pipe.LTrim(ctx, stream, 0, int64(limit-1))
		if ttl > 0 {
			pipe.Expire(ctx, stream, ttl)
		}
		return nil
	})
	return err
}

func (b *RedisBackend) PopEvents(ctx context.Context, stream string, max int, _ time.Duration) ([][]byte, error) {
	var lrange *redis.StringSliceCmd
	_, err := b.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, stream, 0, int64(max-1))
		pipe.Del(ctx, stream)
		return nil
	})
	if err != nil {
		return nil, err
	}

	vals := lrange.Val()
	payloads := make([][]byte, 0, len(vals))
	for _, v := range vals {
		payloads = append(payloads, []byte(v))
	}
	return payloads, nil
}

func (b *RedisBackend) Close() error {
	return b.Client.Close()
}
