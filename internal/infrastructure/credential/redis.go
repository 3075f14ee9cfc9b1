package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

const defaultRedisTimeout = 5 * time.Second

// RedisOptions captures the settings for the Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Timeout  time.Duration
}

// RedisStore keeps the token under a single Redis key with no expiry.
type RedisStore struct {
	client *redis.Client
	key    string
}

// ConnectRedis initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStore(client, opts.Key), nil
}

// NewRedisStore wraps an existing client. An empty key means DefaultKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context) (domain.Credential, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("credential: redis get: %w", err)
	}
	if val == "" {
		return "", domain.ErrNoCredential
	}
	return domain.Credential(val), nil
}

func (s *RedisStore) Set(ctx context.Context, token domain.Credential) error {
	if !token.Present() {
		return s.Clear(ctx)
	}
	return s.client.Set(ctx, s.key, string(token), 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
