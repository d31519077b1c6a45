package resume

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "lessonroom:resume"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr   string        `yaml:"addr"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

// Redis stores each client's keys in one hash.
type Redis struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// DialRedis connects to Redis and verifies the connection.
func DialRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(rdb, cfg.Prefix, cfg.TTL), nil
}

// NewRedis wraps an existing client. A zero ttl keeps keys forever.
func NewRedis(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis) hashKey(clientID string) string {
	return r.prefix + ":" + clientID
}

func (r *Redis) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.hashKey(clientID), key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, clientID, key, value string) error {
	hk := r.hashKey(clientID)
	if err := r.rdb.HSet(ctx, hk, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, hk, r.ttl).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, clientID, key string) error {
	if err := r.rdb.HDel(ctx, r.hashKey(clientID), key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
