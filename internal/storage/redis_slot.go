package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	DB       int
	Password string
	Prefix   string
}

type RedisSlot struct {
	client *redis.Client
	prefix string
}

func NewRedisSlot(client *redis.Client, prefix string) *RedisSlot {
	return &RedisSlot{client: client, prefix: prefix}
}

// OpenRedis connects and pings the server before returning.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisSlot, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("storage: redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       opts.DB,
		Password: opts.Password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisSlot(client, opts.Prefix), nil
}

func (s *RedisSlot) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *RedisSlot) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
